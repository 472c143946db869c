// Package nbt is the typed view over Named Binary Tag documents, the format
// Minecraft uses to persist item stacks. Decoded documents are trees of Tag
// values; callers reach into them through the typed accessors on Compound
// instead of assuming a shape.
package nbt

import "fmt"

// Kind is the one-byte type id that prefixes every tag on the wire.
type Kind byte

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

var kindNames = [...]string{
	"End", "Byte", "Short", "Int", "Long", "Float", "Double",
	"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Tag is any decoded value. The concrete type is one of the types below.
type Tag interface {
	Kind() Kind
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

// List is a homogeneous sequence; Elem is the element kind as written on the
// wire, which may be KindEnd for an empty list.
type List struct {
	Elem  Kind
	Items []Tag
}

// Compound is a set of named tags.
type Compound map[string]Tag

func (Byte) Kind() Kind      { return KindByte }
func (Short) Kind() Kind     { return KindShort }
func (Int) Kind() Kind       { return KindInt }
func (Long) Kind() Kind      { return KindLong }
func (Float) Kind() Kind     { return KindFloat }
func (Double) Kind() Kind    { return KindDouble }
func (ByteArray) Kind() Kind { return KindByteArray }
func (String) Kind() Kind    { return KindString }
func (IntArray) Kind() Kind  { return KindIntArray }
func (LongArray) Kind() Kind { return KindLongArray }
func (List) Kind() Kind      { return KindList }
func (Compound) Kind() Kind  { return KindCompound }

// Get returns the named child. A nil Compound has no children.
func (c Compound) Get(name string) (Tag, bool) {
	t, ok := c[name]
	return t, ok && t != nil
}

// Compound returns the named child if it is a compound.
func (c Compound) Compound(name string) (Compound, bool) {
	t, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	v, ok := t.(Compound)
	return v, ok
}

// List returns the named child if it is a list.
func (c Compound) List(name string) (List, bool) {
	t, ok := c.Get(name)
	if !ok {
		return List{}, false
	}
	v, ok := t.(List)
	return v, ok
}

// String returns the named child if it is a string leaf.
func (c Compound) String(name string) (string, bool) {
	t, ok := c.Get(name)
	if !ok {
		return "", false
	}
	v, ok := t.(String)
	return string(v), ok
}

// Int returns the named child coerced to an integer, see AsInt.
func (c Compound) Int(name string) (int64, bool) {
	t, ok := c.Get(name)
	if !ok {
		return 0, false
	}
	return AsInt(t)
}

// Path walks nested compounds, e.g. Path("tag", "display").
func (c Compound) Path(names ...string) (Compound, bool) {
	cur := c
	for _, n := range names {
		next, ok := cur.Compound(n)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// AsInt coerces any numeric leaf to int64. Floating point values are
// truncated toward zero. Non-numeric tags report false.
func AsInt(t Tag) (int64, bool) {
	switch v := t.(type) {
	case Byte:
		return int64(v), true
	case Short:
		return int64(v), true
	case Int:
		return int64(v), true
	case Long:
		return int64(v), true
	case Float:
		return int64(v), true
	case Double:
		return int64(v), true
	default:
		return 0, false
	}
}
