package nbt

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	gonbt "github.com/Tnze/go-mc/nbt"
)

// MaxDepth bounds List/Compound nesting accepted by Decode.
const MaxDepth = 512

var (
	ErrNotCompound = errors.New("nbt: root tag is not a compound")
	ErrTooDeep     = fmt.Errorf("nbt: nesting deeper than %d", MaxDepth)
)

// ListError reports a list whose items do not share one kind.
type ListError struct {
	Want, Got Kind
	Index     int
}

func (e *ListError) Error() string {
	return fmt.Sprintf("nbt: list item %d is %s, list holds %s", e.Index, e.Got, e.Want)
}

// Decode parses one uncompressed NBT document and returns the root name and
// compound. Trailing bytes after the root are ignored.
func Decode(data []byte) (name string, root Compound, err error) {
	var v any
	name, err = decodeAny(data, &v)
	if err != nil {
		return "", nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return "", nil, ErrNotCompound
	}
	tag, err := fromAny(m, 0)
	if err != nil {
		return "", nil, err
	}
	return name, tag.(Compound), nil
}

// decodeAny runs the wire decoder. Hostile lengths can make it panic on
// allocation, so panics come back as errors.
func decodeAny(data []byte, v *any) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("nbt: malformed document: %v", r)
		}
	}()
	name, err = gonbt.NewDecoder(bytes.NewReader(data)).Decode(v)
	if err != nil {
		return "", fmt.Errorf("nbt: %w", err)
	}
	return name, nil
}

// fromAny converts the generic tree produced by the wire decoder into Tags.
func fromAny(v any, depth int) (Tag, error) {
	switch x := v.(type) {
	case nil:
		return List{Elem: KindEnd}, nil
	case int8:
		return Byte(x), nil
	case uint8:
		return Byte(int8(x)), nil
	case bool:
		if x {
			return Byte(1), nil
		}
		return Byte(0), nil
	case int16:
		return Short(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Long(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Double(x), nil
	case string:
		return String(x), nil
	case []byte:
		return ByteArray(append([]byte(nil), x...)), nil
	case []int8:
		out := make(ByteArray, len(x))
		for i, b := range x {
			out[i] = byte(b)
		}
		return out, nil
	case []int32:
		return IntArray(append([]int32(nil), x...)), nil
	case []int64:
		return LongArray(append([]int64(nil), x...)), nil
	case map[string]any:
		if depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		out := make(Compound, len(x))
		for k, item := range x {
			t, err := fromAny(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = t
		}
		return out, nil
	case []any:
		if depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		return listFrom(len(x), func(i int) any { return x[i] }, depth)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		if depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		return listFrom(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, depth)
	}
	return nil, fmt.Errorf("nbt: unsupported decoded value %T", v)
}

func listFrom(n int, at func(int) any, depth int) (Tag, error) {
	l := List{Elem: KindEnd}
	if n == 0 {
		return l, nil
	}
	l.Items = make([]Tag, 0, n)
	for i := 0; i < n; i++ {
		t, err := fromAny(at(i), depth+1)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			l.Elem = t.Kind()
		} else if t.Kind() != l.Elem {
			return nil, &ListError{Want: l.Elem, Got: t.Kind(), Index: i}
		}
		l.Items = append(l.Items, t)
	}
	return l, nil
}
