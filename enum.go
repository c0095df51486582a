package jbind

import (
	"reflect"
)

// Enumer lets an enum-like type bypass the registered-name table and the
// reflective factory: it serializes as the constant's programmatic name,
// as a JSON string.
type Enumer interface {
	EnumName() string
}

// EnumParser is the inverse of Enumer: a pointer receiver that assigns
// itself from a programmatic name. Types that only implement Enumer get
// name-based serialization but fall back to ordinal parsing on read;
// implementing EnumParser too gives full control over both directions.
type EnumParser interface {
	ParseEnumName(name string) error
}

// enumNameTable maps ordinals to names and back for a plain named integer
// type that doesn't implement Enumer directly (e.g. `type Status int`
// registered via RegisterEnumNames). Populated once and read-only after.
type enumNameTable struct {
	names  map[int64]string
	values map[string]int64
}

// RegisterEnumNames teaches reg to serialize values of rt (a named integer
// type) as the JSON string names[i] for ordinal i, and to parse any of
// those names back to the corresponding ordinal. rt must be an integer
// kind; panics otherwise, since this is a programming error at setup time,
// not a runtime condition.
func RegisterEnumNames(reg *Registry, rt reflect.Type, names []string) error {
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		panic("jbind: RegisterEnumNames requires an integer-kinded type, got " + rt.String())
	}
	table := &enumNameTable{
		names:  make(map[int64]string, len(names)),
		values: make(map[string]int64, len(names)),
	}
	for i, n := range names {
		table.names[int64(i)] = n
		table.values[n] = int64(i)
	}
	typ := Type{Raw: rt}
	return reg.RegisterExact(typ, enumTableCodec(typ, table))
}

func enumTableCodec(typ Type, table *enumNameTable) Codec {
	return NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			ord := ordinalOf(v)
			if name, ok := table.names[ord]; ok {
				return String(name), nil
			}
			return NumberTree(NumberFromInt64(ord)), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			rv := reflect.New(typ.Raw).Elem()
			if s, ok := t.StringValue(); ok {
				ord, ok := table.values[s]
				if !ok {
					return reflect.Value{}, &SyntaxError{Context: "unknown enum name " + s + " for " + typ.String()}
				}
				setOrdinal(rv, ord)
				return rv, nil
			}
			i, err := parseLenientInt(t)
			if err != nil {
				return reflect.Value{}, err
			}
			setOrdinal(rv, i)
			return rv, nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func ordinalOf(v reflect.Value) int64 {
	if v.CanInt() {
		return v.Int()
	}
	return int64(v.Uint())
}

func setOrdinal(rv reflect.Value, ord int64) {
	if rv.CanInt() {
		rv.SetInt(ord)
		return
	}
	rv.SetUint(uint64(ord))
}

// enumerFactory matches any type implementing Enumer, constructing a codec
// on the fly rather than requiring pre-registration. Consulted late in the
// factory list, after the registry factory and before the reflective
// fallback.
type enumerFactory struct{}

func (enumerFactory) TryCreate(typ Type, _ *Engine, _ *resolveState) (Codec, bool) {
	if typ.Raw == nil {
		return nil, false
	}
	if !implementsEnumer(typ.Raw) {
		return nil, false
	}
	return NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			e, ok := asEnumer(v)
			if !ok {
				return nil, &UnsupportedTypeError{Type: typ}
			}
			return String(e.EnumName()), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			rv := reflect.New(typ.Raw)
			if p, ok := rv.Interface().(EnumParser); ok {
				s, ok := t.StringValue()
				if !ok {
					return reflect.Value{}, &SyntaxError{Context: "expected string for enum " + typ.String()}
				}
				if err := p.ParseEnumName(s); err != nil {
					return reflect.Value{}, &SyntaxError{Context: "unknown enum name " + s, Cause: err}
				}
				return rv.Elem(), nil
			}
			// No EnumParser: fall back to ordinal parsing for integer-kinded enums.
			i, err := parseLenientInt(t)
			if err != nil {
				return reflect.Value{}, err
			}
			setOrdinal(rv.Elem(), i)
			return rv.Elem(), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	), true
}

func implementsEnumer(rt reflect.Type) bool {
	enumerType := reflect.TypeOf((*Enumer)(nil)).Elem()
	return rt.Implements(enumerType) || reflect.PointerTo(rt).Implements(enumerType)
}

func asEnumer(v reflect.Value) (Enumer, bool) {
	if v.CanInterface() {
		if e, ok := v.Interface().(Enumer); ok {
			return e, true
		}
	}
	if v.CanAddr() {
		if e, ok := v.Addr().Interface().(Enumer); ok {
			return e, true
		}
	}
	return nil, false
}
