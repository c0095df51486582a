package jbind

import (
	"fmt"
	"reflect"
)

// cycleStack is the per-walk set of currently-visited object identities
// used to reject cycles on the reflective path. Owned by a single
// in-flight walk and discarded on return; never shared across calls or
// goroutines.
type cycleStack struct {
	seen map[uintptr]string
}

func newCycleStack() *cycleStack {
	return &cycleStack{seen: make(map[uintptr]string)}
}

// push records ptr as visited at path. ok is false if ptr was already on
// the stack (a cycle); the caller must not push a pointer twice in that
// case, and must report CyclicReferenceError instead.
func (c *cycleStack) push(ptr uintptr, path string) bool {
	if ptr == 0 {
		return true
	}
	if _, dup := c.seen[ptr]; dup {
		return false
	}
	c.seen[ptr] = path
	return true
}

// pop releases ptr. Safe to call unconditionally, including on paths where
// push was never reached for a zero pointer.
func (c *cycleStack) pop(ptr uintptr) {
	if ptr == 0 {
		return
	}
	delete(c.seen, ptr)
}

// identityOf returns the pointer identity of v for cycle tracking, and
// whether v's kind carries an identity worth tracking at all. Value-like
// kinds (struct, scalar) have no identity of their own; a cycle through
// them always passes through a referencing Ptr/Map/Slice ancestor, which
// is where it is caught.
func identityOf(v reflect.Value) (uintptr, bool) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map:
		if v.IsNil() {
			return 0, false
		}
		return v.Pointer(), true
	case reflect.Slice:
		if v.IsNil() {
			return 0, false
		}
		return v.Pointer(), true
	default:
		return 0, false
	}
}

// joinPath appends a field or index segment to a dotted walk path, used
// for both CyclicReferenceError's reported path and debugging/signals.
func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "." + segment
}

func indexSegment(i int) string {
	return fmt.Sprintf("[%d]", i)
}

// walkableFields returns rt's declared fields in visit order: the
// struct's own fields first, then each embedded level's, most-derived
// first. Fields excluded by excl are omitted entirely so neither the
// serializer nor the deserializer needs to repeat the check.
func walkableFields(rt reflect.Type, excl *ExclusionRules) []fieldInfo {
	info := describeStruct(rt)
	var out []fieldInfo
	for _, class := range info.Classes {
		for _, fi := range class.Fields {
			if excl.SkipField(fi) {
				continue
			}
			out = append(out, fi)
		}
	}
	return out
}
