package nbt

import (
	"fmt"
	"io"

	gonbt "github.com/Tnze/go-mc/nbt"
)

// Encode writes root as a named, uncompressed compound document.
//
// Lists of Byte, Int or Long are rejected: the wire encoder maps those Go
// slices to the array tags instead.
func Encode(w io.Writer, name string, root Compound) error {
	v, err := toAny(root)
	if err != nil {
		return err
	}
	if err := gonbt.NewEncoder(w).Encode(v, name); err != nil {
		return fmt.Errorf("nbt: %w", err)
	}
	return nil
}

func toAny(t Tag) (any, error) {
	switch v := t.(type) {
	case Byte:
		return int8(v), nil
	case Short:
		return int16(v), nil
	case Int:
		return int32(v), nil
	case Long:
		return int64(v), nil
	case Float:
		return float32(v), nil
	case Double:
		return float64(v), nil
	case String:
		return string(v), nil
	case ByteArray:
		return []byte(v), nil
	case IntArray:
		return []int32(v), nil
	case LongArray:
		return []int64(v), nil
	case Compound:
		out := make(map[string]any, len(v))
		for k, child := range v {
			c, err := toAny(child)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = c
		}
		return out, nil
	case List:
		return listToAny(v)
	}
	return nil, fmt.Errorf("nbt: cannot encode %T", t)
}

func listToAny(l List) (any, error) {
	switch l.Elem {
	case KindEnd, KindCompound:
		out := make([]map[string]any, 0, len(l.Items))
		for i, item := range l.Items {
			c, ok := item.(Compound)
			if !ok {
				return nil, &ListError{Want: KindCompound, Got: item.Kind(), Index: i}
			}
			m, err := toAny(c)
			if err != nil {
				return nil, err
			}
			out = append(out, m.(map[string]any))
		}
		return out, nil
	case KindString:
		return typedList(l, func(s String) string { return string(s) })
	case KindShort:
		return typedList(l, func(s Short) int16 { return int16(s) })
	case KindFloat:
		return typedList(l, func(f Float) float32 { return float32(f) })
	case KindDouble:
		return typedList(l, func(d Double) float64 { return float64(d) })
	}
	return nil, fmt.Errorf("nbt: cannot encode a list of %s", l.Elem)
}

func typedList[T Tag, G any](l List, conv func(T) G) ([]G, error) {
	out := make([]G, 0, len(l.Items))
	for i, item := range l.Items {
		v, ok := item.(T)
		if !ok {
			return nil, &ListError{Want: l.Elem, Got: item.Kind(), Index: i}
		}
		out = append(out, conv(v))
	}
	return out, nil
}
