package jbind

import (
	"reflect"

	"github.com/google/uuid"
)

// registerUUID seeds reg with the UUID builtin: canonical hyphenated
// lowercase form on the wire.
func registerUUID(reg *Registry) {
	typ := TypeOf(uuid.UUID{})
	mustRegister(reg, typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			u := v.Interface().(uuid.UUID)
			return String(u.String()), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			s, ok := t.StringValue()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "expected string for UUID"}
			}
			u, err := uuid.Parse(s)
			if err != nil {
				return reflect.Value{}, &SyntaxError{Context: "malformed UUID " + s, Cause: err}
			}
			return reflect.ValueOf(u), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	))
}
