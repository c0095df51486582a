package jbind

import (
	"reflect"
	"time"
)

// NumberPolicy controls how the dynamic/"any" codec reconstructs a JSON
// number with no declared Go type to guide it.
type NumberPolicy int

const (
	// NumberFloat64 decodes an unknown number as float64, the JSON-idiomatic
	// default (matches encoding/json's behavior for `any`).
	NumberFloat64 NumberPolicy = iota
	// NumberBigFloat decodes an unknown number as math/big.Float, preserving
	// precision the float64 default would lose.
	NumberBigFloat
)

// LongPolicy controls the wire shape of 64-bit integers, whose full range
// exceeds what IEEE-754 consumers (JavaScript among them) read back intact.
type LongPolicy int

const (
	// LongNumber emits int64/uint64 values as JSON numbers, the default.
	LongNumber LongPolicy = iota
	// LongString emits int64/uint64 values as JSON strings.
	LongString
)

// Engine is the configured entry point for binding: the Registry, the
// adapter cache, the factory list, and every output-shape option, fixed at
// construction and safe for concurrent use afterwards. Registrations are
// the one mutable surface, and Freeze closes it.
type Engine struct {
	registry  *Registry
	cache     *adapterCache
	factories []CodecFactory

	naming               NamingStrategy
	serializeExclusion   *ExclusionRules
	deserializeExclusion *ExclusionRules
	datePattern          string
	complexMapKeys       bool
	numberPolicy         NumberPolicy
	longPolicy           LongPolicy
	strictUnknownMembers bool
	reflectionFilter     func(reflect.Type) bool

	serializeNulls      bool
	prettyNewline       string
	prettyIndent        string
	htmlSafe            bool
	lenient             bool
	permitSpecialFloats bool
	nonExecutablePrefix bool

	opts []Option
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithNamingStrategy sets the field-naming strategy (default UpperCamelNaming).
func WithNamingStrategy(ns NamingStrategy) Option {
	return func(e *Engine) { e.naming = ns }
}

// WithSerializeExclusion replaces the exclusion rules consulted while
// writing (default: none excluded).
func WithSerializeExclusion(r *ExclusionRules) Option {
	return func(e *Engine) { e.serializeExclusion = r }
}

// WithDeserializeExclusion replaces the exclusion rules consulted while
// reading (default: none excluded).
func WithDeserializeExclusion(r *ExclusionRules) Option {
	return func(e *Engine) { e.deserializeExclusion = r }
}

// WithVersion sets the version window used by both directions' exclusion
// rules: a field tagged `since` later than v, or `until` at or before v,
// is skipped.
func WithVersion(v float64) Option {
	return func(e *Engine) {
		e.serializeExclusion.Version = &v
		e.deserializeExclusion.Version = &v
	}
}

// WithExplicitExposeOnly skips, in both directions, any field lacking a
// `jbind:",expose"` marker.
func WithExplicitExposeOnly(enabled bool) Option {
	return func(e *Engine) {
		e.serializeExclusion.ExplicitExposeOnly = enabled
		e.deserializeExclusion.ExplicitExposeOnly = enabled
	}
}

// WithDisableInnerClasses skips fields of unnamed (inline-declared) struct
// types in both directions.
func WithDisableInnerClasses(enabled bool) Option {
	return func(e *Engine) {
		e.serializeExclusion.DisableInnerClasses = enabled
		e.deserializeExclusion.DisableInnerClasses = enabled
	}
}

// WithDatePattern sets the primary time.Time layout, in Go reference-time
// syntax. Empty keeps the ISO-8601 default.
func WithDatePattern(pattern string) Option {
	return func(e *Engine) { e.datePattern = pattern }
}

// WithDateStyle selects a predefined time.Time layout. WithDatePattern
// takes precedence when both are supplied.
func WithDateStyle(style DateStyle) Option {
	return func(e *Engine) {
		if layout := styleLayout(style); layout != "" && e.datePattern == "" {
			e.datePattern = layout
		}
	}
}

// WithComplexMapKeys enables the Array-of-pairs map representation when any
// key of a map serializes to a non-scalar tree. Off by default (non-scalar
// keys are stringified into an Object instead).
func WithComplexMapKeys(enabled bool) Option {
	return func(e *Engine) { e.complexMapKeys = enabled }
}

// WithNumberPolicy sets how the dynamic/"any" codec reconstructs numbers.
func WithNumberPolicy(p NumberPolicy) Option {
	return func(e *Engine) { e.numberPolicy = p }
}

// WithLongPolicy sets the wire shape of int64/uint64 values.
func WithLongPolicy(p LongPolicy) Option {
	return func(e *Engine) { e.longPolicy = p }
}

// WithStrictUnknownMembers makes deserialization fail with UnknownMemberError
// on a JSON member no declared field (or its alternates) claims. Off by
// default (unrecognized members are ignored).
func WithStrictUnknownMembers(enabled bool) Option {
	return func(e *Engine) { e.strictUnknownMembers = enabled }
}

// WithReflectionFilter restricts which struct types the reflective fallback
// may handle. A type the filter rejects resolves to no codec at all, so
// binding it fails with UnsupportedTypeError unless something more specific
// (a registration, a custom codec) claims it first.
func WithReflectionFilter(allow func(reflect.Type) bool) Option {
	return func(e *Engine) { e.reflectionFilter = allow }
}

// WithSerializeNulls makes ToJSON emit `"field":null` for null object
// members instead of omitting them. Array elements are always written,
// regardless of this setting. Off by default.
func WithSerializeNulls(enabled bool) Option {
	return func(e *Engine) { e.serializeNulls = enabled }
}

// WithPrettyPrint enables indented, newline-separated output. newline may
// contain only '\r' and '\n' characters; indent only spaces and tabs —
// anything else fails with ConfigurationError at the first ToJSON call. An
// empty indent means compact output.
func WithPrettyPrint(newline, indent string) Option {
	return func(e *Engine) {
		e.prettyNewline = newline
		e.prettyIndent = indent
	}
}

// WithHTMLSafe escapes '<', '>', '&', '=', '\'', U+2028, and U+2029 in string output
// so documents embed safely in HTML script contexts.
func WithHTMLSafe(enabled bool) Option {
	return func(e *Engine) { e.htmlSafe = enabled }
}

// WithLenient tolerates non-standard JSON on read: trailing commas,
// comments, unquoted member names, single-quoted strings, and the NaN/
// Infinity literals. Off by default; malformed input then fails with
// SyntaxError.
func WithLenient(enabled bool) Option {
	return func(e *Engine) { e.lenient = enabled }
}

// WithPermitSpecialFloats allows NaN/+Inf/-Inf to be written as the bare
// tokens NaN/Infinity/-Infinity instead of failing with InvalidNumberError.
func WithPermitSpecialFloats(enabled bool) Option {
	return func(e *Engine) { e.permitSpecialFloats = enabled }
}

// WithNonExecutablePrefix makes ToJSON prepend `)]}'\n` and FromJSON
// tolerantly skip it.
func WithNonExecutablePrefix(enabled bool) Option {
	return func(e *Engine) { e.nonExecutablePrefix = enabled }
}

// New builds an Engine, applying opts in order before seeding the Registry
// with the built-in codecs, so option-dependent builtins (the date and
// 64-bit integer codecs) observe their configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:             NewRegistry(),
		naming:               UpperCamelNaming,
		serializeExclusion:   &ExclusionRules{},
		deserializeExclusion: &ExclusionRules{},
		numberPolicy:         NumberFloat64,
		prettyNewline:        "\n",
		opts:                 append([]Option(nil), opts...),
	}

	for _, opt := range opts {
		opt(e)
	}

	registerPrimitives(e.registry, e.longPolicy)
	registerBigNumbers(e.registry)
	registerUUID(e.registry)
	registerMisc(e.registry)
	mustRegister(e.registry, TypeOf(time.Time{}), newDateCodec(e.datePattern))

	e.cache = newAdapterCache()
	e.factories = defaultFactories()
	emitEngineCreated("engine")
	return e
}

// Options returns the option list this Engine was built with, suitable for
// passing to New to rebuild an equivalent, independent Engine.
func (e *Engine) Options() []Option { return append([]Option(nil), e.opts...) }

// Clone returns an independent Engine with the same configuration and an
// independent, still-mutable copy of the Registry. The adapter cache is NOT
// copied: a clone starts cold and resolves its own codecs, since a cached
// codec may close over the original Engine's registry.
func (e *Engine) Clone() *Engine {
	clone := *e
	clone.registry = e.registry.Clone()
	clone.cache = newAdapterCache()
	serExcl := *e.serializeExclusion
	deserExcl := *e.deserializeExclusion
	clone.serializeExclusion = &serExcl
	clone.deserializeExclusion = &deserExcl
	clone.factories = defaultFactories()
	clone.opts = append([]Option(nil), e.opts...)
	return &clone
}

// RegisterExact registers codec for the exact descriptor key, shadowing any
// built-in registration for the same key.
func (e *Engine) RegisterExact(typ Type, codec Codec) error {
	return e.registry.RegisterExact(typ, codec)
}

// RegisterHierarchy registers codec for every type assignable to base.
func (e *Engine) RegisterHierarchy(base reflect.Type, codec Codec) error {
	return e.registry.RegisterHierarchy(base, codec)
}

// RegisterEnumNames teaches the Engine to serialize values of rt, a named
// integer type, as the string names[i] for ordinal i, and to parse any of
// those names back to the corresponding ordinal.
func (e *Engine) RegisterEnumNames(rt reflect.Type, names []string) error {
	return RegisterEnumNames(e.registry, rt, names)
}

// Freeze makes the Engine's Registry unmodifiable.
func (e *Engine) Freeze() {
	e.registry.Freeze()
	emitRegistryFrozen()
}

// GetCodec resolves and returns the Codec typ would use, running it through
// the full factory list rather than only the Registry.
func (e *Engine) GetCodec(typ Type) (Codec, error) {
	return e.resolve(typ, nil)
}
