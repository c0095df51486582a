package jbind

import (
	"math/big"
	"reflect"
)

// registerBigNumbers seeds reg with the lossless arbitrary-precision
// builtins, backed by math/big: numbers too wide for int64/float64 keep
// their exact decimal text on the wire.
func registerBigNumbers(reg *Registry) {
	it, ic := bigIntCodec()
	mustRegister(reg, it, ic)
	ft, fc := bigFloatCodec()
	mustRegister(reg, ft, fc)
}

func bigIntCodec() (Type, Codec) {
	typ := TypeOf(big.Int{})
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			bi := v.Interface().(big.Int)
			return NumberTree(NumberFromBigInt(&bi)), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			n, ok := t.NumberValue()
			if !ok {
				if s, ok := t.StringValue(); ok {
					n = Number(s)
				} else {
					return reflect.Value{}, &SyntaxError{Context: "expected number for big.Int"}
				}
			}
			bi, ok := n.BigInt()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "malformed big integer " + string(n)}
			}
			return reflect.ValueOf(*bi), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func bigFloatCodec() (Type, Codec) {
	typ := TypeOf(big.Float{})
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			bf := v.Interface().(big.Float)
			return NumberTree(NumberFromBigFloat(&bf)), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			n, ok := t.NumberValue()
			if !ok {
				if s, ok := t.StringValue(); ok {
					n = Number(s)
				} else {
					return reflect.Value{}, &SyntaxError{Context: "expected number for big.Float"}
				}
			}
			bf, ok := n.BigFloat()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "malformed big decimal " + string(n)}
			}
			return reflect.ValueOf(*bf), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}
