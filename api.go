// Package jbind provides reflection-based binding between Go values and a
// JSON-isomorphic Tree, through a configurable Engine: a Registry of
// codecs, an adapter cache that resolves composite types once and reuses
// the result, and a factory chain that falls back to full reflective
// struct walking when nothing more specific claims a type.
//
// # Basic usage
//
//	type User struct {
//		ID    string `jbind:"id"`
//		Email string `jbind:"email,mail"`
//	}
//
//	data, err := jbind.ToJSON(User{ID: "1", Email: "a@example.com"})
//	var u User
//	err = jbind.FromJSONInto(data, &u)
//
// # Configuring an Engine
//
// The package-level functions above use a shared default Engine built with
// New() and no options. Call New directly to configure naming, exclusion,
// map-key, number, and output-shape behavior:
//
//	eng := jbind.New(
//		jbind.WithNamingStrategy(jbind.LowerCaseWithSeparator("_")),
//		jbind.WithPrettyPrint("\n", "  "),
//	)
//	data, err := eng.ToJSON(user, jbind.TypeOf(user))
//
// # Struct tags
//
// Fields are named with `jbind:"name,alt1,alt2"`; a bare `json:"name"` tag
// is honored as a fallback when no jbind tag is present. `jbind:"-"` skips a
// field entirely. `since`/`until` tags gate a field to a version window
// (see WithVersion); `jbind:",expose"` restricts serialization to fields
// that opt in, when the configured ExclusionRules require explicit exposure.
package jbind

var defaultEngine = New()

// Default returns the package-level Engine used by the ToJSON/FromJSON
// family of functions. Mutating its Registry is visible to every caller
// sharing it; build a dedicated Engine with New instead if that's not
// wanted.
func Default() *Engine { return defaultEngine }

// ToTree converts v into a Tree using the default Engine.
func ToTree(v any) (*Tree, error) {
	return defaultEngine.ToTree(v, TypeOf(v))
}

// ToJSON marshals v to JSON text using the default Engine.
func ToJSON(v any) ([]byte, error) {
	return defaultEngine.ToJSON(v, TypeOf(v))
}

// FromTree converts tree into a value of typ using the default Engine.
func FromTree(tree *Tree, typ Type) (any, error) {
	return defaultEngine.FromTree(tree, typ)
}

// FromJSON unmarshals data into a value of typ using the default Engine.
func FromJSON(data []byte, typ Type) (any, error) {
	return defaultEngine.FromJSON(data, typ)
}

// FromJSONInto unmarshals data into *dst using the default Engine. dst must
// be a non-nil pointer.
func FromJSONInto(data []byte, dst any) error {
	return defaultEngine.FromJSONInto(data, dst)
}

// GetCodec resolves the Codec typ would use under the default Engine.
func GetCodec(typ Type) (Codec, error) {
	return defaultEngine.GetCodec(typ)
}
