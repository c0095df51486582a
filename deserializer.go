package jbind

import (
	"io"
	"reflect"
	"time"
)

// FromTree deserializes tree into a value of typ, returning the value
// boxed as any for the caller to type assert or reflect into a
// destination.
func (e *Engine) FromTree(tree *Tree, typ Type) (any, error) {
	start := time.Now()
	emitUnmarshalStart(typ.String())

	codec, err := e.resolve(typ, nil)
	if err != nil {
		emitUnmarshalComplete(typ.String(), 0, time.Since(start), err)
		return nil, err
	}
	rv, err := codec.Read(tree, typ)
	emitUnmarshalComplete(typ.String(), tree.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if !rv.IsValid() {
		return nil, nil
	}
	return rv.Interface(), nil
}

// FromJSON parses JSON text and deserializes it into a value of typ.
func (e *Engine) FromJSON(data []byte, typ Type) (any, error) {
	tree, err := e.readJSON(data)
	if err != nil {
		return nil, err
	}
	return e.FromTree(tree, typ)
}

// FromJSONReader drains r and deserializes its document into a value of
// typ. A read failure surfaces as IOError.
func (e *Engine) FromJSONReader(r io.Reader, typ Type) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "reading document", Cause: err}
	}
	return e.FromJSON(data, typ)
}

// FromJSONInto is FromJSON's pointer-destination convenience form, the Go
// idiom for "decode into this existing value" (cf. encoding/json.Unmarshal).
func (e *Engine) FromJSONInto(data []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &ConfigurationError{Op: "decode into", Msg: "destination must be a non-nil pointer"}
	}
	typ := DescribeType(rv.Elem().Type())
	v, err := e.FromJSON(data, typ)
	if err != nil {
		return err
	}
	if v == nil {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
		return nil
	}
	rv.Elem().Set(reflect.ValueOf(v))
	return nil
}
