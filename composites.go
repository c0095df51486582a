package jbind

import (
	"encoding/base64"
	"reflect"
	"sort"
)

var byteSliceType = reflect.TypeOf([]byte(nil))

// anyFactory handles the dynamic/"any" descriptor: on write it dispatches
// on each value's own runtime type; on read it builds the default generic
// mapping — bool, string, float64 (or big.Float under NumberBigFloat
// policy), []any, map[string]any — since a bare Tree carries no Go type to
// reconstruct.
type anyFactory struct{}

func (anyFactory) TryCreate(typ Type, eng *Engine, _ *resolveState) (Codec, bool) {
	if !typ.IsDynamic() {
		return nil, false
	}
	return &anyCodec{eng: eng}, true
}

type anyCodec struct{ eng *Engine }

func (c *anyCodec) Kind() CodecKind { return Combined | KindCreator }

func (c *anyCodec) Write(v reflect.Value, typ Type) (*Tree, error) {
	return c.writeCycled(v, typ, &writeCtx{stack: newCycleStack()})
}

func (c *anyCodec) writeCycled(v reflect.Value, _ Type, ctx *writeCtx) (*Tree, error) {
	rv := v
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Null(), nil
	}
	concrete := DescribeType(rv.Type())
	codec, err := c.eng.resolve(concrete, nil)
	if err != nil {
		return nil, err
	}
	return writeValue(codec, rv, concrete, ctx)
}

func (c *anyCodec) Read(t *Tree, typ Type) (reflect.Value, error) {
	switch t.Kind() {
	case KindNull:
		return reflect.Zero(typ.Raw), nil
	case KindBool:
		b, _ := t.BoolValue()
		return reflect.ValueOf(b), nil
	case KindNumber:
		n, _ := t.NumberValue()
		if c.eng.numberPolicy == NumberBigFloat {
			bf, ok := n.BigFloat()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "malformed number " + string(n)}
			}
			return reflect.ValueOf(*bf), nil
		}
		f, ok := n.Float64()
		if !ok {
			return reflect.Value{}, &SyntaxError{Context: "malformed number " + string(n)}
		}
		return reflect.ValueOf(f), nil
	case KindString:
		s, _ := t.StringValue()
		return reflect.ValueOf(s), nil
	case KindArray:
		elems := t.Elems()
		out := make([]any, len(elems))
		for i, e := range elems {
			ev, err := c.Read(e, Dynamic)
			if err != nil {
				return reflect.Value{}, err
			}
			if ev.IsValid() {
				out[i] = ev.Interface()
			}
		}
		return reflect.ValueOf(out), nil
	case KindObject:
		out := make(map[string]any, t.Len())
		var rangeErr error
		t.Range(func(name string, v *Tree) bool {
			ev, err := c.Read(v, Dynamic)
			if err != nil {
				rangeErr = err
				return false
			}
			if ev.IsValid() {
				out[name] = ev.Interface()
			}
			return true
		})
		if rangeErr != nil {
			return reflect.Value{}, rangeErr
		}
		return reflect.ValueOf(out), nil
	default:
		return reflect.Value{}, &UnsupportedTypeError{Type: typ}
	}
}

func (c *anyCodec) CreateEmpty(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil }

// pointerFactory handles Ptr types: a nil pointer writes Null; reading
// Null produces a nil pointer.
type pointerFactory struct{}

func (pointerFactory) TryCreate(typ Type, eng *Engine, state *resolveState) (Codec, bool) {
	if typ.Raw == nil || typ.Kind() != reflect.Ptr {
		return nil, false
	}
	elemTyp := Type{Raw: typ.Raw.Elem()}
	if typ.Elem != nil {
		elemTyp = *typ.Elem
	}
	elemCodec, err := eng.resolve(elemTyp, state)
	if err != nil {
		return nil, false
	}
	return &pointerCodec{rt: typ.Raw, elemTyp: elemTyp, elemCodec: elemCodec}, true
}

type pointerCodec struct {
	rt        reflect.Type
	elemTyp   Type
	elemCodec Codec
}

func (c *pointerCodec) Kind() CodecKind { return Combined | KindCreator }

func (c *pointerCodec) Write(v reflect.Value, typ Type) (*Tree, error) {
	return c.writeCycled(v, typ, &writeCtx{stack: newCycleStack()})
}

func (c *pointerCodec) writeCycled(v reflect.Value, _ Type, ctx *writeCtx) (*Tree, error) {
	if !v.IsValid() || v.IsNil() {
		return Null(), nil
	}
	id, track := identityOf(v)
	if track {
		if !ctx.stack.push(id, ctx.path) {
			return nil, &CyclicReferenceError{Type: c.elemTyp, Path: ctx.path}
		}
		defer ctx.stack.pop(id)
	}
	return writeValue(c.elemCodec, v.Elem(), c.elemTyp, ctx)
}

func (c *pointerCodec) Read(t *Tree, typ Type) (reflect.Value, error) {
	if t.IsNull() {
		return reflect.Zero(typ.Raw), nil
	}
	ev, err := c.elemCodec.Read(t, c.elemTyp)
	if err != nil {
		return reflect.Value{}, err
	}
	ptr := reflect.New(typ.Raw.Elem())
	if ev.IsValid() {
		ptr.Elem().Set(ev)
	}
	return ptr, nil
}

func (c *pointerCodec) CreateEmpty(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil }

// sliceFactory handles Slice and Array types. []byte is special-cased to
// the base64-text convention idiomatic Go JSON code follows
// (encoding/json does the same for raw []byte fields).
type sliceFactory struct{}

func (sliceFactory) TryCreate(typ Type, eng *Engine, state *resolveState) (Codec, bool) {
	if typ.Raw == nil {
		return nil, false
	}
	k := typ.Kind()
	if k != reflect.Slice && k != reflect.Array {
		return nil, false
	}
	if typ.Raw == byteSliceType {
		return byteSliceCodec(), true
	}
	elemTyp := Type{Raw: typ.Raw.Elem()}
	if typ.Elem != nil {
		elemTyp = *typ.Elem
	}
	elemCodec, err := eng.resolve(elemTyp, state)
	if err != nil {
		return nil, false
	}
	return &sliceCodec{rt: typ.Raw, elemTyp: elemTyp, elemCodec: elemCodec}, true
}

func byteSliceCodec() Codec {
	return NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			b := v.Interface().([]byte)
			if b == nil {
				return Null(), nil
			}
			return String(base64.StdEncoding.EncodeToString(b)), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			s, ok := t.StringValue()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "expected base64 string for []byte"}
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return reflect.Value{}, &SyntaxError{Context: "malformed base64", Cause: err}
			}
			return reflect.ValueOf(b), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

type sliceCodec struct {
	rt        reflect.Type
	elemTyp   Type
	elemCodec Codec
}

func (c *sliceCodec) Kind() CodecKind { return Combined | KindCreator }

func (c *sliceCodec) Write(v reflect.Value, typ Type) (*Tree, error) {
	return c.writeCycled(v, typ, &writeCtx{stack: newCycleStack()})
}

func (c *sliceCodec) writeCycled(v reflect.Value, _ Type, ctx *writeCtx) (*Tree, error) {
	if c.rt.Kind() == reflect.Slice && v.IsNil() {
		return Null(), nil
	}
	if id, track := identityOf(v); track {
		if !ctx.stack.push(id, ctx.path) {
			return nil, &CyclicReferenceError{Type: c.elemTyp, Path: ctx.path}
		}
		defer ctx.stack.pop(id)
	}
	arr := Array()
	for i := 0; i < v.Len(); i++ {
		childCtx := &writeCtx{stack: ctx.stack, path: joinPath(ctx.path, indexSegment(i))}
		tree, err := writeValue(c.elemCodec, v.Index(i), c.elemTyp, childCtx)
		if err != nil {
			return nil, err
		}
		arr.Append(tree)
	}
	return arr, nil
}

func (c *sliceCodec) Read(t *Tree, typ Type) (reflect.Value, error) {
	if t.IsNull() {
		return reflect.Zero(typ.Raw), nil
	}
	if !t.IsArray() {
		return reflect.Value{}, &SyntaxError{Context: "expected array for " + typ.String()}
	}
	elems := t.Elems()
	if c.rt.Kind() == reflect.Array {
		out := reflect.New(c.rt).Elem()
		for i := 0; i < out.Len() && i < len(elems); i++ {
			ev, err := c.elemCodec.Read(elems[i], c.elemTyp)
			if err != nil {
				return reflect.Value{}, err
			}
			if ev.IsValid() {
				out.Index(i).Set(ev)
			}
		}
		return out, nil
	}
	out := reflect.MakeSlice(c.rt, len(elems), len(elems))
	for i, e := range elems {
		ev, err := c.elemCodec.Read(e, c.elemTyp)
		if err != nil {
			return reflect.Value{}, err
		}
		if ev.IsValid() {
			out.Index(i).Set(ev)
		}
	}
	return out, nil
}

func (c *sliceCodec) CreateEmpty(typ Type) (reflect.Value, error) {
	if typ.Raw.Kind() == reflect.Array {
		return reflect.New(typ.Raw).Elem(), nil
	}
	return reflect.MakeSlice(typ.Raw, 0, 0), nil
}

// mapFactory handles Map types: string keys, a "complex keys" mode
// producing an Array of [key, value] pairs for non-scalar keys, and a
// stringified-key Object fallback otherwise.
type mapFactory struct{}

func (mapFactory) TryCreate(typ Type, eng *Engine, state *resolveState) (Codec, bool) {
	if typ.Raw == nil || typ.Kind() != reflect.Map {
		return nil, false
	}
	keyTyp := Type{Raw: typ.Raw.Key()}
	if typ.Key != nil {
		keyTyp = *typ.Key
	}
	valTyp := Type{Raw: typ.Raw.Elem()}
	if typ.Value != nil {
		valTyp = *typ.Value
	}
	keyCodec, err := eng.resolve(keyTyp, state)
	if err != nil {
		return nil, false
	}
	valCodec, err := eng.resolve(valTyp, state)
	if err != nil {
		return nil, false
	}
	return &mapCodec{eng: eng, rt: typ.Raw, keyTyp: keyTyp, valTyp: valTyp, keyCodec: keyCodec, valCodec: valCodec}, true
}

type mapCodec struct {
	eng      *Engine
	rt       reflect.Type
	keyTyp   Type
	valTyp   Type
	keyCodec Codec
	valCodec Codec
}

func (c *mapCodec) Kind() CodecKind { return Combined | KindCreator }

func (c *mapCodec) Write(v reflect.Value, typ Type) (*Tree, error) {
	return c.writeCycled(v, typ, &writeCtx{stack: newCycleStack()})
}

func (c *mapCodec) writeCycled(v reflect.Value, _ Type, ctx *writeCtx) (*Tree, error) {
	if v.IsNil() {
		return Null(), nil
	}
	if id, track := identityOf(v); track {
		if !ctx.stack.push(id, ctx.path) {
			return nil, &CyclicReferenceError{Type: c.valTyp, Path: ctx.path}
		}
		defer ctx.stack.pop(id)
	}

	type pair struct {
		name string
		k, v *Tree
	}
	pairs := make([]pair, 0, v.Len())
	complex := false
	for _, k := range v.MapKeys() {
		kt, err := writeValue(c.keyCodec, k, c.keyTyp, ctx)
		if err != nil {
			return nil, err
		}
		vt, err := writeValue(c.valCodec, v.MapIndex(k), c.valTyp, ctx)
		if err != nil {
			return nil, err
		}
		if !kt.IsBool() && !kt.IsNumber() && !kt.IsString() {
			complex = true
		}
		pairs = append(pairs, pair{keyToMemberName(kt), kt, vt})
	}

	// Go randomizes map iteration; sorting by serialized key text keeps two
	// identical calls byte-identical.
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	if c.eng.complexMapKeys && complex {
		arr := Array()
		for _, p := range pairs {
			arr.Append(Array(p.k, p.v))
		}
		return arr, nil
	}
	obj := Object()
	for _, p := range pairs {
		obj.SetMember(p.name, p.v)
	}
	return obj, nil
}

func keyToMemberName(kt *Tree) string {
	switch kt.Kind() {
	case KindString:
		s, _ := kt.StringValue()
		return s
	case KindNumber:
		n, _ := kt.NumberValue()
		return string(n)
	case KindBool:
		b, _ := kt.BoolValue()
		if b {
			return "true"
		}
		return "false"
	default:
		return kt.String()
	}
}

func (c *mapCodec) Read(t *Tree, typ Type) (reflect.Value, error) {
	if t.IsNull() {
		return reflect.Zero(typ.Raw), nil
	}
	out := reflect.MakeMap(typ.Raw)
	switch t.Kind() {
	case KindArray:
		for _, pair := range t.Elems() {
			if !pair.IsArray() || len(pair.Elems()) != 2 {
				return reflect.Value{}, &SyntaxError{Context: "expected [key, value] pair for " + typ.String()}
			}
			elems := pair.Elems()
			kv, err := c.keyCodec.Read(elems[0], c.keyTyp)
			if err != nil {
				return reflect.Value{}, err
			}
			vv, err := c.valCodec.Read(elems[1], c.valTyp)
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(kv, vv)
		}
	case KindObject:
		var rangeErr error
		t.Range(func(name string, v *Tree) bool {
			kv, err := c.keyCodec.Read(String(name), c.keyTyp)
			if err != nil {
				rangeErr = err
				return false
			}
			vv, err := c.valCodec.Read(v, c.valTyp)
			if err != nil {
				rangeErr = err
				return false
			}
			out.SetMapIndex(kv, vv)
			return true
		})
		if rangeErr != nil {
			return reflect.Value{}, rangeErr
		}
	default:
		return reflect.Value{}, &SyntaxError{Context: "expected object or array for " + typ.String()}
	}
	return out, nil
}

func (c *mapCodec) CreateEmpty(typ Type) (reflect.Value, error) { return reflect.MakeMap(typ.Raw), nil }
