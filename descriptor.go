package jbind

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Struct tags this package reads must be registered with sentinel before
	// any Scan call sees them.
	sentinel.Tag("json")
	sentinel.Tag("jbind")
}

// dynamicType is the sentinel raw type used for "any"/unknown generic slots.
// The walker resolves the actual element type from each value's runtime
// type when a descriptor's slot is dynamic.
var dynamicType = reflect.TypeOf((*any)(nil)).Elem()

// Type is a reified handle for a Go type: a raw reflect.Type plus, for
// container types, the generic parameter slots the walker needs (element
// type for slices/arrays, key/value types for maps). Two Types are equal
// iff their raw types and generic parameters are pairwise equal.
type Type struct {
	Raw   reflect.Type
	Elem  *Type // slice/array element, or pointer target
	Key   *Type // map key
	Value *Type // map value
}

// TypeOf builds a descriptor for v's runtime type.
func TypeOf(v any) Type {
	return DescribeType(reflect.TypeOf(v))
}

var (
	descMu    sync.Mutex
	descCache = make(map[reflect.Type]*Type)
)

// DescribeType builds a descriptor from a reflect.Type, filling in generic
// slots for containers. Slots whose argument cannot be determined statically
// (e.g. a map[string]any's value) default to the dynamic descriptor, and the
// walker falls back to each element's runtime type.
//
// Descriptors are interned per reflect.Type: two DescribeType calls for the
// same reflect.Type return identical Type values, including their generic
// slot pointers, so descriptors built at different times compare == and key
// the same entry in the Registry's exact tier and the adapter cache.
func DescribeType(rt reflect.Type) Type {
	if rt == nil {
		return Type{}
	}
	descMu.Lock()
	defer descMu.Unlock()
	return *describeLocked(rt, make(map[reflect.Type]bool))
}

func describeLocked(rt reflect.Type, inProgress map[reflect.Type]bool) *Type {
	if d, ok := descCache[rt]; ok {
		return d
	}
	d := &Type{Raw: rt}
	if inProgress[rt] {
		// Self-referential container (type S []S): the inner slot carries
		// the raw type only, breaking the recursion. Not cached, so the
		// fully-slotted outer descriptor wins the cache entry.
		return d
	}
	inProgress[rt] = true
	switch rt.Kind() {
	case reflect.Ptr:
		d.Elem = describeLocked(rt.Elem(), inProgress)
	case reflect.Slice, reflect.Array:
		d.Elem = describeLocked(rt.Elem(), inProgress)
	case reflect.Map:
		d.Key = describeLocked(rt.Key(), inProgress)
		d.Value = describeLocked(rt.Elem(), inProgress)
	}
	delete(inProgress, rt)
	descCache[rt] = d
	return d
}

// Dynamic is the opaque "any" descriptor: the walker resolves the runtime
// class of each value it encounters rather than trusting a declared type.
var Dynamic = Type{Raw: dynamicType}

// IsDynamic reports whether t is the opaque "any" descriptor.
func (t Type) IsDynamic() bool { return t.Raw == dynamicType }

// Equal reports whether two descriptors name the same type, recursively
// comparing generic parameter slots.
func (t Type) Equal(o Type) bool {
	if t.Raw != o.Raw {
		return false
	}
	if !typePtrEqual(t.Elem, o.Elem) {
		return false
	}
	if !typePtrEqual(t.Key, o.Key) {
		return false
	}
	return typePtrEqual(t.Value, o.Value)
}

func typePtrEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// RawOnly returns a descriptor carrying only the raw type, discarding any
// generic parameter slots. Used by Registry.Lookup's second tier.
func (t Type) RawOnly() Type { return Type{Raw: t.Raw} }

// String renders a human-readable name for error messages and signals.
func (t Type) String() string {
	if t.Raw == nil {
		return "<nil>"
	}
	return t.Raw.String()
}

// Kind returns the underlying reflect.Kind, dereferencing nothing.
func (t Type) Kind() reflect.Kind {
	if t.Raw == nil {
		return reflect.Invalid
	}
	return t.Raw.Kind()
}

// fieldKind classifies a struct field's shape for the walker.
type fieldKind int

const (
	fieldScalar fieldKind = iota
	fieldStruct
	fieldPointer
	fieldSlice
	fieldMap
	fieldInterface
)

func classify(rt reflect.Type) fieldKind {
	switch rt.Kind() {
	case reflect.Struct:
		return fieldStruct
	case reflect.Ptr:
		return fieldPointer
	case reflect.Slice, reflect.Array:
		return fieldSlice
	case reflect.Map:
		return fieldMap
	case reflect.Interface:
		return fieldInterface
	default:
		return fieldScalar
	}
}

// fieldInfo describes one declared field of a struct, enough for the Walker
// to visit it and for the Naming/Exclusion strategies to judge it.
type fieldInfo struct {
	Name        string // Go field name
	Index       []int  // step path, relative to the owning top-level struct
	PtrAt       []int  // positions within Index after which a nil-checked Elem() is required
	Type        reflect.Type
	Kind        fieldKind
	Tags        reflect.StructTag
	SerialName  string   // resolved primary JSON member name (tag override or naming strategy)
	AlternateIn []string // additional accepted names on read
}

// fieldValue navigates rv along fi's index path, dereferencing embedded
// pointers as needed. ok is false if a nil pointer was encountered along the
// path (the field does not exist on this value).
func (fi fieldInfo) fieldValue(rv reflect.Value) (reflect.Value, bool) {
	ptrSet := make(map[int]bool, len(fi.PtrAt))
	for _, p := range fi.PtrAt {
		ptrSet[p] = true
	}
	cur := rv
	for i, idx := range fi.Index {
		cur = cur.Field(idx)
		if ptrSet[i] {
			if cur.IsNil() {
				return reflect.Value{}, false
			}
			cur = cur.Elem()
		}
	}
	return cur, true
}

// fieldValueForSet is fieldValue's deserialization counterpart: it walks the
// same index path but allocates a fresh struct for any nil embedded pointer
// it crosses, rather than reporting absence, since the Tree Deserializer
// builds the destination value as it goes.
func (fi fieldInfo) fieldValueForSet(rv reflect.Value) reflect.Value {
	ptrSet := make(map[int]bool, len(fi.PtrAt))
	for _, p := range fi.PtrAt {
		ptrSet[p] = true
	}
	cur := rv
	for i, idx := range fi.Index {
		cur = cur.Field(idx)
		if ptrSet[i] {
			if cur.IsNil() {
				cur.Set(reflect.New(cur.Type().Elem()))
			}
			cur = cur.Elem()
		}
	}
	return cur
}

// classInfo describes one level of a type's class hierarchy: its own fields,
// most-derived first.
type classInfo struct {
	Name   string
	Fields []fieldInfo
}

// structInfo is the full, cached description of a struct type: one classInfo
// per embedding level, outermost (most-derived) first.
type structInfo struct {
	Classes []classInfo
}

var (
	structCacheMu sync.RWMutex
	structCache   = make(map[reflect.Type]*structInfo)
)

// Scan registers T's field metadata with sentinel and returns T's
// descriptor. Resolution is lazy either way; Scan is the eager,
// compile-time-typed entry point, and it makes T's metadata visible to
// sentinel.Lookup for other tooling sharing the process.
func Scan[T any]() Type {
	sentinel.Scan[T]()
	return DescribeType(reflect.TypeOf((*T)(nil)).Elem())
}

// describeStruct returns the cached structInfo for rt, building it on first
// use. Types pre-registered via Scan are described from their sentinel
// metadata; anything discovered only while walking a field (a runtime
// reflect.Type, which sentinel.Scan's compile-time type parameter cannot
// name) is described by the manual scanner below.
func describeStruct(rt reflect.Type) *structInfo {
	structCacheMu.RLock()
	if info, ok := structCache[rt]; ok {
		structCacheMu.RUnlock()
		return info
	}
	structCacheMu.RUnlock()

	structCacheMu.Lock()
	defer structCacheMu.Unlock()
	if info, ok := structCache[rt]; ok {
		return info
	}

	info := buildStructInfo(rt)
	structCache[rt] = info
	return info
}

// buildStructInfo walks rt's own fields first, then each embedded struct's,
// so visit order is always most-derived level first. An embedded struct
// field contributes its own classInfo entry.
func buildStructInfo(rt reflect.Type) *structInfo {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		if info := structInfoFromMetadata(rt, meta); info != nil {
			return info
		}
	}
	info := &structInfo{}
	appendClass(info, rt, nil, nil)
	return info
}

// structInfoFromMetadata maps sentinel's flat field list onto the walker's
// field list. Sentinel does not model embedding levels, so any type with an
// anonymous field falls back to the manual scan.
func structInfoFromMetadata(rt reflect.Type, meta sentinel.Metadata) *structInfo {
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Anonymous {
			return nil
		}
	}
	cls := classInfo{Name: meta.TypeName}
	for _, fm := range meta.Fields {
		sf := rt.FieldByIndex(fm.Index)
		cls.Fields = append(cls.Fields, fieldInfo{
			Name:  fm.Name,
			Index: fm.Index,
			Type:  fm.ReflectType,
			Kind:  classify(fm.ReflectType),
			Tags:  sf.Tag,
		})
	}
	return &structInfo{Classes: []classInfo{cls}}
}

func appendClass(info *structInfo, rt reflect.Type, indexPrefix, ptrPrefix []int) {
	own := classInfo{Name: rt.Name()}
	var embedded []reflect.StructField

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous {
			// An embedded struct's exported fields are promoted even when the
			// embedded type itself is unexported; an unexported embedded
			// pointer is skipped, since a nil one cannot be allocated on read.
			if sf.IsExported() || sf.Type.Kind() != reflect.Ptr {
				embedded = append(embedded, sf)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		own.Fields = append(own.Fields, fieldInfo{
			Name:  sf.Name,
			Index: appendIndex(indexPrefix, sf.Index),
			PtrAt: ptrPrefix,
			Type:  sf.Type,
			Kind:  classify(sf.Type),
			Tags:  sf.Tag,
		})
	}
	info.Classes = append(info.Classes, own)

	for _, sf := range embedded {
		et := sf.Type
		fullIndex := appendIndex(indexPrefix, sf.Index)
		ptrs := ptrPrefix
		if et.Kind() == reflect.Ptr {
			et = et.Elem()
			ptrs = append(append([]int{}, ptrPrefix...), len(fullIndex)-1)
		}
		if et.Kind() != reflect.Struct {
			continue
		}
		appendClass(info, et, fullIndex, ptrs)
	}
}

func appendIndex(prefix, tail []int) []int {
	out := make([]int, 0, len(prefix)+len(tail))
	out = append(out, prefix...)
	out = append(out, tail...)
	return out
}
