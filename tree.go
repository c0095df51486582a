package jbind

import (
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the tag of a Tree value.
type Kind int

// Tree tags, one per JSON value shape.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Number is the literal decimal text of a JSON number, preserved verbatim
// so that round-tripping never loses precision.
type Number string

// NumberFromInt64 renders i as a Number.
func NumberFromInt64(i int64) Number { return Number(strconv.FormatInt(i, 10)) }

// NumberFromUint64 renders u as a Number.
func NumberFromUint64(u uint64) Number { return Number(strconv.FormatUint(u, 10)) }

// NumberFromFloat64 renders f as a Number using the shortest round-tripping form.
func NumberFromFloat64(f float64) Number { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// NumberFromBigInt renders i as a Number.
func NumberFromBigInt(i *big.Int) Number { return Number(i.String()) }

// NumberFromBigFloat renders f as a Number.
func NumberFromBigFloat(f *big.Float) Number { return Number(f.Text('g', -1)) }

// Int64 parses the Number as a base-10 integer.
func (n Number) Int64() (int64, bool) {
	i, err := strconv.ParseInt(string(n), 10, 64)
	return i, err == nil
}

// Float64 parses the Number as a float64.
func (n Number) Float64() (float64, bool) {
	f, err := strconv.ParseFloat(string(n), 64)
	return f, err == nil
}

// BigInt parses the Number as an arbitrary-precision integer.
func (n Number) BigInt() (*big.Int, bool) {
	i, ok := new(big.Int).SetString(string(n), 10)
	return i, ok
}

// BigFloat parses the Number as an arbitrary-precision float.
func (n Number) BigFloat() (*big.Float, bool) {
	f, ok := new(big.Float).SetString(string(n))
	return f, ok
}

func (n Number) String() string { return string(n) }

// member is one (name, value) pair of an Object, kept in insertion order.
type member struct {
	name  string
	value *Tree
}

// orderedObject is an insertion-ordered string-keyed map of Tree values.
type orderedObject struct {
	members []member
	index   map[string]int
}

func newOrderedObject() *orderedObject {
	return &orderedObject{index: make(map[string]int)}
}

func (o *orderedObject) set(name string, v *Tree) {
	if i, ok := o.index[name]; ok {
		o.members[i].value = v
		return
	}
	o.index[name] = len(o.members)
	o.members = append(o.members, member{name: name, value: v})
}

func (o *orderedObject) get(name string) (*Tree, bool) {
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.members[i].value, true
}

func (o *orderedObject) delete(name string) {
	i, ok := o.index[name]
	if !ok {
		return
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	delete(o.index, name)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].name] = j
	}
}

func (o *orderedObject) clone() *orderedObject {
	out := newOrderedObject()
	for _, m := range o.members {
		out.set(m.name, m.value.DeepCopy())
	}
	return out
}

// Tree is an in-memory tagged value isomorphic to a JSON document:
// Null | Bool | Number | String | Array[Tree] | Object[ordered map<String,Tree>].
//
// A Tree is immutable by convention once shared: callers that mutate a Tree
// obtained from elsewhere should DeepCopy it first. The Null value is a
// process-wide singleton; DeepCopy returns it unchanged rather than
// allocating a fresh node.
type Tree struct {
	kind Kind
	b    bool
	num  Number
	str  string
	arr  []*Tree
	obj  *orderedObject
}

var nullTree = &Tree{kind: KindNull}

// Null returns the singleton Null tree value.
func Null() *Tree { return nullTree }

// Bool wraps a boolean value.
func Bool(b bool) *Tree { return &Tree{kind: KindBool, b: b} }

// NumberTree wraps a pre-formatted Number.
func NumberTree(n Number) *Tree { return &Tree{kind: KindNumber, num: n} }

// Int wraps an int64 as a Number tree.
func Int(i int64) *Tree { return NumberTree(NumberFromInt64(i)) }

// Float wraps a float64 as a Number tree.
func Float(f float64) *Tree { return NumberTree(NumberFromFloat64(f)) }

// String wraps a string value.
func String(s string) *Tree { return &Tree{kind: KindString, str: s} }

// Array wraps a slice of elements as an Array tree. Nulls are admitted.
func Array(items ...*Tree) *Tree {
	elems := make([]*Tree, len(items))
	copy(elems, items)
	return &Tree{kind: KindArray, arr: elems}
}

// Object returns a new, empty Object tree.
func Object() *Tree {
	return &Tree{kind: KindObject, obj: newOrderedObject()}
}

// Kind reports the tag of the value.
func (t *Tree) Kind() Kind { return t.kind }

// IsNull reports whether t is the Null variant.
func (t *Tree) IsNull() bool { return t.kind == KindNull }

// IsBool reports whether t is a Bool.
func (t *Tree) IsBool() bool { return t.kind == KindBool }

// IsNumber reports whether t is a Number.
func (t *Tree) IsNumber() bool { return t.kind == KindNumber }

// IsString reports whether t is a String.
func (t *Tree) IsString() bool { return t.kind == KindString }

// IsArray reports whether t is an Array.
func (t *Tree) IsArray() bool { return t.kind == KindArray }

// IsObject reports whether t is an Object.
func (t *Tree) IsObject() bool { return t.kind == KindObject }

// BoolValue returns the boolean payload and whether t is a Bool.
func (t *Tree) BoolValue() (bool, bool) { return t.b, t.kind == KindBool }

// NumberValue returns the Number payload and whether t is a Number.
func (t *Tree) NumberValue() (Number, bool) { return t.num, t.kind == KindNumber }

// StringValue returns the string payload and whether t is a String.
func (t *Tree) StringValue() (string, bool) { return t.str, t.kind == KindString }

// Elems returns the Array's elements. Returns nil if t is not an Array.
func (t *Tree) Elems() []*Tree {
	if t.kind != KindArray {
		return nil
	}
	return t.arr
}

// Append adds an element to an Array tree in place.
func (t *Tree) Append(v *Tree) {
	if t.kind != KindArray {
		return
	}
	t.arr = append(t.arr, v)
}

// Len reports the number of elements (Array) or members (Object); 0 otherwise.
func (t *Tree) Len() int {
	switch t.kind {
	case KindArray:
		return len(t.arr)
	case KindObject:
		return len(t.obj.members)
	default:
		return 0
	}
}

// Member looks up a named member of an Object tree.
func (t *Tree) Member(name string) (*Tree, bool) {
	if t.kind != KindObject {
		return nil, false
	}
	return t.obj.get(name)
}

// SetMember sets (or appends, preserving first-seen order) a named member.
// A nil v is stored as Null, never as absence.
func (t *Tree) SetMember(name string, v *Tree) {
	if t.kind != KindObject {
		return
	}
	if v == nil {
		v = Null()
	}
	t.obj.set(name, v)
}

// DeleteMember removes a named member, if present.
func (t *Tree) DeleteMember(name string) {
	if t.kind != KindObject {
		return
	}
	t.obj.delete(name)
}

// Keys returns the Object's member names in insertion order.
func (t *Tree) Keys() []string {
	if t.kind != KindObject {
		return nil
	}
	out := make([]string, len(t.obj.members))
	for i, m := range t.obj.members {
		out[i] = m.name
	}
	return out
}

// Range calls fn for each member of an Object tree, in insertion order.
// Iteration stops early if fn returns false.
func (t *Tree) Range(fn func(name string, v *Tree) bool) {
	if t.kind != KindObject {
		return
	}
	for _, m := range t.obj.members {
		if !fn(m.name, m.value) {
			return
		}
	}
}

// DeepCopy returns an independent copy of t. The Null singleton is returned
// unchanged, per the immutability invariant.
func (t *Tree) DeepCopy() *Tree {
	switch t.kind {
	case KindNull:
		return nullTree
	case KindBool, KindNumber, KindString:
		cp := *t
		return &cp
	case KindArray:
		elems := make([]*Tree, len(t.arr))
		for i, e := range t.arr {
			elems[i] = e.DeepCopy()
		}
		return &Tree{kind: KindArray, arr: elems}
	case KindObject:
		return &Tree{kind: KindObject, obj: t.obj.clone()}
	default:
		return t
	}
}

// Equal reports structural equality between a and b.
func Equal(a, b *Tree) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return numbersEqual(a.num, b.num)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj.members) != len(b.obj.members) {
			return false
		}
		for _, m := range a.obj.members {
			bv, ok := b.obj.get(m.name)
			if !ok || !Equal(m.value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// numbersEqual compares Numbers by literal text first, then by parsed value
// when both parse ("1e1" equals "10"); literals that do not both parse are
// equal only if their text is identical.
func numbersEqual(a, b Number) bool {
	if a == b {
		return true
	}
	af, aok := a.BigFloat()
	bf, bok := b.BigFloat()
	if aok && bok {
		return af.Cmp(bf) == 0
	}
	return false
}

// String renders t as compact JSON text, always in lenient mode so that
// non-finite numbers never fault. Intended for debugging/logging, not for
// the engine's configurable write path (see Engine.ToJSON / StreamingBridge).
func (t *Tree) String() string {
	var sb strings.Builder
	writeCompact(&sb, t)
	return sb.String()
}

func writeCompact(sb *strings.Builder, t *Tree) {
	switch t.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if t.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(string(t.num))
	case KindString:
		sb.WriteByte('"')
		for _, r := range t.str {
			switch r {
			case '"':
				sb.WriteString(`\"`)
			case '\\':
				sb.WriteString(`\\`)
			case '\n':
				sb.WriteString(`\n`)
			case '\r':
				sb.WriteString(`\r`)
			case '\t':
				sb.WriteString(`\t`)
			default:
				sb.WriteRune(r)
			}
		}
		sb.WriteByte('"')
	case KindArray:
		sb.WriteByte('[')
		for i, e := range t.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCompact(sb, e)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, m := range t.obj.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCompact(sb, String(m.name))
			sb.WriteByte(':')
			writeCompact(sb, m.value)
		}
		sb.WriteByte('}')
	}
}
