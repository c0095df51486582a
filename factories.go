package jbind

import "reflect"

// CodecFactory produces a Codec for typ, or declines by returning false.
// Factories are consulted in order by the resolver; first match wins.
// state is the in-flight resolution scratchpad (cache.go); factories that
// need a nested type's codec (container element, map value, struct field)
// must call eng.resolve(nested, state) — passing the SAME state — so
// cyclic type graphs are detected across the whole chain rather than per
// factory call.
type CodecFactory interface {
	TryCreate(typ Type, eng *Engine, state *resolveState) (Codec, bool)
}

// FactoryFunc adapts a plain function to CodecFactory.
type FactoryFunc func(typ Type, eng *Engine, state *resolveState) (Codec, bool)

// TryCreate implements CodecFactory.
func (f FactoryFunc) TryCreate(typ Type, eng *Engine, state *resolveState) (Codec, bool) {
	return f(typ, eng, state)
}

// defaultFactories returns the ordered factory list. Both user overrides
// and built-in leaf codecs live in the same Registry, consulted by a
// single registryFactory: the Registry's own exact/hierarchy precedence
// already makes user registrations shadow built-ins without two separate
// factory-list entries for it.
func defaultFactories() []CodecFactory {
	return []CodecFactory{
		treeFactory{},
		anyFactory{},
		exclusionFactory{},
		registryFactory{},
		pointerFactory{},
		sliceFactory{},
		mapFactory{},
		customCodecFactory{},
		enumerFactory{},
		reflectiveFactory{},
	}
}

var treeType = reflect.TypeOf(&Tree{})

// treeFactory handles the Tree type itself: a value already holding a
// parsed document passes through unchanged.
type treeFactory struct{}

func (treeFactory) TryCreate(typ Type, _ *Engine, _ *resolveState) (Codec, bool) {
	if typ.Raw != treeType {
		return nil, false
	}
	return NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			if v.IsNil() {
				return Null(), nil
			}
			return v.Interface().(*Tree), nil
		},
		func(t *Tree, _ Type) (reflect.Value, error) { return reflect.ValueOf(t), nil },
		func(_ Type) (reflect.Value, error) { return reflect.ValueOf(Object()), nil },
	), true
}

// exclusionFactory returns a null-writing, no-op-reading adapter for
// whole classes the configured ExclusionRules skip.
type exclusionFactory struct{}

func (exclusionFactory) TryCreate(typ Type, eng *Engine, _ *resolveState) (Codec, bool) {
	if typ.Raw == nil {
		return nil, false
	}
	if !eng.serializeExclusion.SkipClass(typ.Raw) && !eng.deserializeExclusion.SkipClass(typ.Raw) {
		return nil, false
	}
	return NewCodec(
		func(_ reflect.Value, _ Type) (*Tree, error) { return Null(), nil },
		func(_ *Tree, typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	), true
}

// registryFactory defers to the Engine's Registry, covering both built-in
// leaf codecs (primitives.go, datetime.go, uuidcodec.go, misc.go,
// bignum.go) and anything a caller registered with RegisterExact/
// RegisterHierarchy.
type registryFactory struct{}

func (registryFactory) TryCreate(typ Type, eng *Engine, _ *resolveState) (Codec, bool) {
	return eng.registry.Lookup(typ)
}

// customCodecFactory lets a type opt out of reflective handling by
// implementing the Codec interface directly on itself (Go has no way to
// instantiate a codec named in a struct tag, so self-implementation is the
// tag-driven-codec equivalent).
type customCodecFactory struct{}

var codecInterfaceType = reflect.TypeOf((*Codec)(nil)).Elem()

func (customCodecFactory) TryCreate(typ Type, _ *Engine, _ *resolveState) (Codec, bool) {
	if typ.Raw == nil {
		return nil, false
	}
	if typ.Raw.Implements(codecInterfaceType) {
		zero := reflect.Zero(typ.Raw).Interface()
		return zero.(Codec), true
	}
	if reflect.PointerTo(typ.Raw).Implements(codecInterfaceType) {
		ptr := reflect.New(typ.Raw)
		return ptr.Interface().(Codec), true
	}
	return nil, false
}
