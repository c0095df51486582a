package jbind

import (
	"reflect"
	"strconv"
)

// registerPrimitives seeds reg with the built-in scalar codecs: booleans,
// the integer family, the float family, and strings. longPolicy decides
// whether the int64 and uint64 codecs emit numbers or strings; every other
// integer kind, int and uint included, always emits numbers.
//
// Go's rune is a plain alias for int32 with no distinct reflect.Type, so no
// separate character codec can be registered without silently changing
// every int32 field's wire shape. A caller wanting one-rune-string
// semantics can declare a named `type Char rune` and register a codec for
// it via Engine.RegisterExact.
func registerPrimitives(reg *Registry, longPolicy LongPolicy) {
	bt, bc := boolCodec()
	mustRegister(reg, bt, bc)
	for _, rt := range []reflect.Type{
		reflect.TypeOf(int(0)), reflect.TypeOf(int8(0)), reflect.TypeOf(int16(0)),
		reflect.TypeOf(int32(0)),
	} {
		it, ic := intCodec(rt, false)
		mustRegister(reg, it, ic)
	}
	i64t, i64c := intCodec(reflect.TypeOf(int64(0)), longPolicy == LongString)
	mustRegister(reg, i64t, i64c)
	for _, rt := range []reflect.Type{
		reflect.TypeOf(uint(0)), reflect.TypeOf(uint8(0)), reflect.TypeOf(uint16(0)),
		reflect.TypeOf(uint32(0)),
	} {
		ut, uc := uintCodec(rt, false)
		mustRegister(reg, ut, uc)
	}
	u64t, u64c := uintCodec(reflect.TypeOf(uint64(0)), longPolicy == LongString)
	mustRegister(reg, u64t, u64c)
	f32t, f32c := float32Codec()
	mustRegister(reg, f32t, f32c)
	f64t, f64c := float64Codec()
	mustRegister(reg, f64t, f64c)
	st, sc := stringCodec()
	mustRegister(reg, st, sc)
}

func mustRegister(reg *Registry, typ Type, c Codec) {
	if err := reg.RegisterExact(typ, c); err != nil {
		panic(err) // only fails if reg is already frozen, impossible at construction
	}
}

func boolCodec() (Type, Codec) {
	typ := TypeOf(false)
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) { return Bool(v.Bool()), nil },
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			b, ok := t.BoolValue()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "expected boolean for " + typ.String()}
			}
			return reflect.ValueOf(b), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

// intCodec builds a codec for a signed integer reflect.Type. Read accepts
// a JSON number or a JSON string, failing with SyntaxError only if neither
// parses. asString switches the write shape to a JSON string.
func intCodec(rt reflect.Type, asString bool) (Type, Codec) {
	typ := Type{Raw: rt}
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			if asString {
				return String(strconv.FormatInt(v.Int(), 10)), nil
			}
			return NumberTree(NumberFromInt64(v.Int())), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			i, err := parseLenientInt(t)
			if err != nil {
				return reflect.Value{}, err
			}
			rv := reflect.New(typ.Raw).Elem()
			rv.SetInt(i)
			return rv, nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func uintCodec(rt reflect.Type, asString bool) (Type, Codec) {
	typ := Type{Raw: rt}
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			if asString {
				return String(strconv.FormatUint(v.Uint(), 10)), nil
			}
			return NumberTree(NumberFromUint64(v.Uint())), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			i, err := parseLenientInt(t)
			if err != nil {
				return reflect.Value{}, err
			}
			rv := reflect.New(typ.Raw).Elem()
			rv.SetUint(uint64(i))
			return rv, nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func parseLenientInt(t *Tree) (int64, error) {
	switch t.Kind() {
	case KindNumber:
		n, _ := t.NumberValue()
		if i, ok := n.Int64(); ok {
			return i, nil
		}
		if f, ok := n.Float64(); ok {
			return int64(f), nil
		}
		return 0, &SyntaxError{Context: "malformed number " + string(n)}
	case KindString:
		s, _ := t.StringValue()
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, &SyntaxError{Context: "malformed integer string " + s, Cause: err}
		}
		return i, nil
	default:
		return 0, &SyntaxError{Context: "expected number or numeric string, got " + t.Kind().String()}
	}
}

func float32Codec() (Type, Codec) {
	typ := TypeOf(float32(0))
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) { return NumberTree(NumberFromFloat64(v.Float())), nil },
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			f, err := parseLenientFloat(t)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(float32(f)), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func float64Codec() (Type, Codec) {
	typ := TypeOf(float64(0))
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) { return NumberTree(NumberFromFloat64(v.Float())), nil },
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			f, err := parseLenientFloat(t)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(f), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func parseLenientFloat(t *Tree) (float64, error) {
	switch t.Kind() {
	case KindNumber:
		n, _ := t.NumberValue()
		f, ok := n.Float64()
		if !ok {
			return 0, &SyntaxError{Context: "malformed number " + string(n)}
		}
		return f, nil
	case KindString:
		s, _ := t.StringValue()
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &SyntaxError{Context: "malformed float string " + s, Cause: err}
		}
		return f, nil
	default:
		return 0, &SyntaxError{Context: "expected number or numeric string, got " + t.Kind().String()}
	}
}

func stringCodec() (Type, Codec) {
	typ := TypeOf("")
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) { return String(v.String()), nil },
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			switch t.Kind() {
			case KindString:
				s, _ := t.StringValue()
				return reflect.ValueOf(s), nil
			case KindNumber, KindBool:
				return reflect.ValueOf(t.String()), nil
			default:
				return reflect.Value{}, &SyntaxError{Context: "expected string, got " + t.Kind().String()}
			}
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}
