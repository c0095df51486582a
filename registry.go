package jbind

import (
	"reflect"
	"sync"
)

// hierarchyEntry is one base-class registration in the hierarchy tier.
// Entries are kept in registration order; lookup scans them in reverse so
// the most recently registered match wins.
type hierarchyEntry struct {
	base  reflect.Type
	codec Codec
}

// Registry is the two-tier codec lookup table: an exact tier keyed by
// descriptor equality, and a hierarchy tier keyed by a base class,
// consulted in reverse registration order.
type Registry struct {
	mu        sync.RWMutex
	exact     map[Type]Codec
	hierarchy []hierarchyEntry
	frozen    bool
}

// NewRegistry returns an empty, mutable Registry.
func NewRegistry() *Registry {
	return &Registry{exact: make(map[Type]Codec)}
}

// RegisterExact registers codec for the exact descriptor key, overwriting
// any prior exact registration for key. Fails with ConfigurationError once
// the registry has been frozen.
func (r *Registry) RegisterExact(key Type, codec Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &ConfigurationError{Op: "register exact", Msg: "registry is frozen"}
	}
	r.exact[key] = codec
	return nil
}

// RegisterExactIfAbsent registers codec for key only if no exact entry
// already exists for it. Fails with ConfigurationError after freeze rather
// than silently no-op'ing, for consistency with RegisterExact.
func (r *Registry) RegisterExactIfAbsent(key Type, codec Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &ConfigurationError{Op: "register exact if absent", Msg: "registry is frozen"}
	}
	if _, ok := r.exact[key]; ok {
		return nil
	}
	r.exact[key] = codec
	return nil
}

// RegisterHierarchy registers codec for every descriptor whose raw class
// is assignable to base (an interface type) or equal to/derived from base
// (a concrete type, via embedding). Fails after freeze.
func (r *Registry) RegisterHierarchy(base reflect.Type, codec Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &ConfigurationError{Op: "register hierarchy", Msg: "registry is frozen"}
	}
	r.hierarchy = append(r.hierarchy, hierarchyEntry{base: base, codec: codec})
	return nil
}

// Merge shallow-copies other's entries into r, appending other's hierarchy
// entries after r's own (so other's entries remain more-recent, i.e. take
// precedence per the LIFO rule). Fails after freeze.
func (r *Registry) Merge(other *Registry) error {
	if other == nil {
		return nil
	}
	other.mu.RLock()
	exact := make(map[Type]Codec, len(other.exact))
	for k, v := range other.exact {
		exact[k] = v
	}
	hierarchy := append([]hierarchyEntry(nil), other.hierarchy...)
	other.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &ConfigurationError{Op: "merge", Msg: "registry is frozen"}
	}
	for k, v := range exact {
		r.exact[k] = v
	}
	r.hierarchy = append(r.hierarchy, hierarchy...)
	return nil
}

// Freeze makes the registry unmodifiable. A one-way latch: once set,
// every register_* call fails with ConfigurationError. Safe to call more
// than once.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Clone returns an independent, still-mutable copy of r. The clone is
// never frozen, even if r is.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for k, v := range r.exact {
		out.exact[k] = v
	}
	out.hierarchy = append(out.hierarchy, r.hierarchy...)
	return out
}

// Lookup resolves desc to a registered Codec: (1) exact match on desc,
// (2) exact match on desc's raw type alone, (3) most-recently-registered
// hierarchy entry whose base is an ancestor of desc's raw type. Never
// returns an error; ok is false when no entry matches.
func (r *Registry) Lookup(desc Type) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.exact[desc]; ok {
		return c, true
	}
	if desc.Elem != nil || desc.Key != nil || desc.Value != nil {
		if c, ok := r.exact[desc.RawOnly()]; ok {
			return c, true
		}
	}
	for i := len(r.hierarchy) - 1; i >= 0; i-- {
		e := r.hierarchy[i]
		if isAssignableTo(desc.Raw, e.base) {
			return e.codec, true
		}
	}
	return nil, false
}

// isAssignableTo reports whether a value of type rt qualifies for a
// hierarchy registration keyed by base: either base is an interface rt (or
// *rt, for pointer-receiver methods) implements, or rt is identical to or embeds
// base as a named/struct ancestor.
func isAssignableTo(rt, base reflect.Type) bool {
	if rt == nil || base == nil {
		return false
	}
	if rt == base {
		return true
	}
	if base.Kind() == reflect.Interface {
		if rt.Implements(base) {
			return true
		}
		if reflect.PointerTo(rt).Implements(base) {
			return true
		}
		return false
	}
	if rt.Kind() == reflect.Struct && base.Kind() == reflect.Struct {
		return embeds(rt, base)
	}
	return false
}

// embeds reports whether rt has base embedded, directly or transitively,
// as an anonymous field.
func embeds(rt, base reflect.Type) bool {
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft == base {
			return true
		}
		if ft.Kind() == reflect.Struct && embeds(ft, base) {
			return true
		}
	}
	return false
}
