package jbind

import (
	"io"
	"reflect"
	"time"
)

// writeCtx threads the per-call cycle stack and current field path through a
// chain of composite codecs (pointer/slice/map/struct). It is never exposed
// outside this package: ordinary Codec implementations (leaf codecs, custom
// user codecs) know nothing about it and are called through their plain
// Write method instead — a custom codec handles its whole subtree, and
// nothing underneath it participates in cycle detection.
type writeCtx struct {
	stack *cycleStack
	path  string
}

// cycleWriter is implemented by every composite codec this package builds
// (pointerCodec, sliceCodec, mapCodec, structCodec, proxyCodec) so a cycle
// discovered ten frames down a pointer/slice/map/struct chain is reported
// against the single cycleStack the outermost ToTree call created, instead
// of each composite codec starting a fresh one and missing the cycle.
type cycleWriter interface {
	writeCycled(v reflect.Value, typ Type, ctx *writeCtx) (*Tree, error)
}

// writeValue dispatches through codec's cycle-aware path when available,
// falling back to plain Write for leaf and custom codecs.
func writeValue(codec Codec, v reflect.Value, typ Type, ctx *writeCtx) (*Tree, error) {
	if cw, ok := codec.(cycleWriter); ok {
		return cw.writeCycled(v, typ, ctx)
	}
	return codec.Write(v, typ)
}

// ToTree serializes v, declared as typ, to its Tree representation. Pass
// the zero Type to infer typ from v's own runtime type.
func (e *Engine) ToTree(v any, typ Type) (*Tree, error) {
	if typ.Raw == nil {
		typ = TypeOf(v)
	}
	if typ.Raw == nil {
		// A nil interface with no declared type has no codec to consult; its
		// only faithful rendering is the Null tree.
		return Null(), nil
	}
	start := time.Now()
	emitMarshalStart(typ.String())

	codec, err := e.resolve(typ, nil)
	if err != nil {
		emitMarshalComplete(typ.String(), 0, time.Since(start), err)
		return nil, err
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		rv = reflect.Zero(typ.Raw)
	}
	tree, err := writeValue(codec, rv, typ, &writeCtx{stack: newCycleStack()})
	size := 0
	if tree != nil {
		size = tree.Len()
	}
	emitMarshalComplete(typ.String(), size, time.Since(start), err)
	return tree, err
}

// ToJSON serializes v to JSON text, honoring the engine's configured
// pretty-print, HTML-escaping, serialize-nulls, and non-executable-prefix
// settings.
func (e *Engine) ToJSON(v any, typ Type) ([]byte, error) {
	tree, err := e.ToTree(v, typ)
	if err != nil {
		return nil, err
	}
	return e.writeJSON(tree)
}

// ToJSONInto serializes v directly into w. Failures of w surface as
// IOError; everything else behaves as ToJSON.
func (e *Engine) ToJSONInto(v any, typ Type, w io.Writer) error {
	data, err := e.ToJSON(v, typ)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &IOError{Op: "writing serialized output", Cause: err}
	}
	return nil
}
