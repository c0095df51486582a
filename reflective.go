package jbind

import "reflect"

// reflectiveFactory is the walker itself: the factory of last resort for
// any named struct type no registry entry, custom codec, or enum interface
// claimed. Field lists are pre-computed once per direction at resolve
// time, since ExclusionRules and NamingStrategy are fixed for the lifetime
// of an Engine.
type reflectiveFactory struct{}

func (reflectiveFactory) TryCreate(typ Type, eng *Engine, state *resolveState) (Codec, bool) {
	if typ.Raw == nil || typ.Kind() != reflect.Struct {
		return nil, false
	}
	if eng.reflectionFilter != nil && !eng.reflectionFilter(typ.Raw) {
		return nil, false
	}
	return &structCodec{
		eng:         eng,
		rt:          typ.Raw,
		writeFields: buildStructFields(typ.Raw, eng, eng.serializeExclusion, state),
		readFields:  buildStructFields(typ.Raw, eng, eng.deserializeExclusion, state),
	}, true
}

type structField struct {
	info fieldInfo
	typ  Type
	code Codec
}

func buildStructFields(rt reflect.Type, eng *Engine, excl *ExclusionRules, state *resolveState) []structField {
	fields := walkableFields(rt, excl)
	out := make([]structField, 0, len(fields))
	for _, fi := range fields {
		fi.SerialName = resolveSerialName(fi, eng.naming)
		fi.AlternateIn = resolveAlternateNames(fi)
		ftyp := DescribeType(fi.Type)
		codec, err := eng.resolve(ftyp, state)
		if err != nil {
			continue // no codec for this field's type: silently omit, like an unregistered adapter would
		}
		out = append(out, structField{info: fi, typ: ftyp, code: codec})
	}
	return out
}

// structCodec is the Codec a reflectiveFactory produces for one struct type.
type structCodec struct {
	eng         *Engine
	rt          reflect.Type
	writeFields []structField
	readFields  []structField
}

func (c *structCodec) Kind() CodecKind { return Combined | KindCreator }

func (c *structCodec) Write(v reflect.Value, typ Type) (*Tree, error) {
	return c.writeCycled(v, typ, &writeCtx{stack: newCycleStack()})
}

func (c *structCodec) writeCycled(v reflect.Value, _ Type, ctx *writeCtx) (*Tree, error) {
	obj := Object()
	for _, f := range c.writeFields {
		fv, ok := f.info.fieldValue(v)
		if !ok {
			continue
		}
		childCtx := &writeCtx{stack: ctx.stack, path: joinPath(ctx.path, f.info.SerialName)}
		tree, err := writeValue(f.code, fv, f.typ, childCtx)
		if err != nil {
			return nil, err
		}
		obj.SetMember(f.info.SerialName, tree)
	}
	return obj, nil
}

func (c *structCodec) Read(t *Tree, typ Type) (reflect.Value, error) {
	if t.IsNull() {
		return reflect.Zero(typ.Raw), nil
	}
	if !t.IsObject() {
		return reflect.Value{}, &SyntaxError{Context: "expected object for " + typ.String()}
	}
	rv := reflect.New(c.rt).Elem()
	consumed := make(map[string]bool, t.Len())

	for _, f := range c.readFields {
		member, name, ok := lookupMember(t, f.info)
		if !ok {
			continue
		}
		consumed[name] = true
		val, err := f.code.Read(member, f.typ)
		if err != nil {
			return reflect.Value{}, err
		}
		if !val.IsValid() {
			continue
		}
		dst := f.info.fieldValueForSet(rv)
		dst.Set(val)
	}

	if c.eng.strictUnknownMembers {
		for _, key := range t.Keys() {
			if !consumed[key] {
				return reflect.Value{}, &UnknownMemberError{Type: typ, Member: key}
			}
		}
	}
	return rv, nil
}

// lookupMember finds the Tree member matching fi's primary name, falling
// back to its alternate names in order.
func lookupMember(t *Tree, fi fieldInfo) (member *Tree, name string, ok bool) {
	if m, found := t.Member(fi.SerialName); found {
		return m, fi.SerialName, true
	}
	for _, alt := range fi.AlternateIn {
		if m, found := t.Member(alt); found {
			return m, alt, true
		}
	}
	return nil, "", false
}

func (c *structCodec) CreateEmpty(typ Type) (reflect.Value, error) {
	return reflect.New(typ.Raw).Elem(), nil
}
