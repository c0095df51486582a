package jbind

import "reflect"

// ExclusionRules is a composable pair of skip predicates, applied
// uniformly in both directions. Serialization and deserialization may
// configure different instances. Go has no `transient`/`static` modifier
// to filter on; the nearest equivalents are unexported fields (never
// visited at all, see buildStructInfo) and fields explicitly tagged
// `jbind:"-"`, which SkipField treats as always-skip.
type ExclusionRules struct {
	// Version, if non-nil, skips a field whose `since`/`until` tag
	// values put it outside [since, until) for the configured Version.
	Version *float64

	// ExplicitExposeOnly, when true, skips any field lacking a
	// `jbind:",expose"` marker.
	ExplicitExposeOnly bool

	// DisableInnerClasses skips fields whose declared type is an unnamed
	// (inline-declared) struct type, the closest Go shape to a non-static
	// nested class.
	DisableInnerClasses bool

	// Extra predicates are ORed with the built-ins (disjunction: any true
	// skips the field). Lets a caller compose ad hoc rules without
	// reimplementing the built-in ones.
	Extra []func(fieldInfo) bool
}

// SkipField reports whether fi should be excluded from processing.
func (r *ExclusionRules) SkipField(fi fieldInfo) bool {
	if r == nil {
		return false
	}
	if v, ok := fi.Tags.Lookup("jbind"); ok && v == "-" {
		return true
	}
	if r.Version != nil && versionExcludes(fi, *r.Version) {
		return true
	}
	if r.ExplicitExposeOnly && !hasExposeMarker(fi) {
		return true
	}
	if r.DisableInnerClasses && isInnerClassField(fi.Type) {
		return true
	}
	for _, pred := range r.Extra {
		if pred(fi) {
			return true
		}
	}
	return false
}

// SkipClass reports whether rt should be excluded wholesale: anonymous
// types always are; Go's closest analog is a type with no name (an inline
// struct literal type).
func (r *ExclusionRules) SkipClass(rt reflect.Type) bool {
	if rt == nil {
		return false
	}
	if rt.Kind() == reflect.Struct && rt.Name() == "" {
		return true
	}
	return false
}

func versionExcludes(fi fieldInfo, version float64) bool {
	since, hasSince := fi.Tags.Lookup("since")
	until, hasUntil := fi.Tags.Lookup("until")
	if hasSince {
		if v, ok := parseVersionTag(since); ok && version < v {
			return true
		}
	}
	if hasUntil {
		if v, ok := parseVersionTag(until); ok && version >= v {
			return true
		}
	}
	return false
}

func parseVersionTag(s string) (float64, bool) {
	var v float64
	var frac float64 = 1
	var seenDot bool
	var any bool
	for _, r := range s {
		switch {
		case r == '.' && !seenDot:
			seenDot = true
		case r >= '0' && r <= '9':
			any = true
			if seenDot {
				frac /= 10
				v += float64(r-'0') * frac
			} else {
				v = v*10 + float64(r-'0')
			}
		default:
			return 0, false
		}
	}
	return v, any
}

// isInnerClassField reports whether rt is an unnamed struct type, directly
// or behind a pointer.
func isInnerClassField(rt reflect.Type) bool {
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return rt.Kind() == reflect.Struct && rt.Name() == ""
}

func hasExposeMarker(fi fieldInfo) bool {
	v, ok := fi.Tags.Lookup("jbind")
	if !ok {
		return false
	}
	for _, part := range splitTagOptions(v) {
		if part == "expose" {
			return true
		}
	}
	return false
}

func splitTagOptions(v string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			out = append(out, v[start:i])
			start = i + 1
		}
	}
	return out
}
