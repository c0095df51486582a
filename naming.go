package jbind

import (
	"reflect"
	"strings"
	"unicode"
)

// NamingStrategy is a pure function from a field's declared Go name to its
// JSON member name. Built-in strategies are provided below; an explicit
// `jbind:"name,..."` tag override always wins regardless of strategy.
type NamingStrategy func(fieldName string) string

// IdentityNaming returns the Go field name unchanged.
func IdentityNaming(fieldName string) string { return fieldName }

// UpperCamelNaming returns the field name unchanged from Go's own
// upper-camel convention (struct field names are already UpperCamel).
func UpperCamelNaming(fieldName string) string { return fieldName }

// UpperCamelSpacedNaming inserts a space before each interior uppercase
// run: "FirstName" -> "First Name".
func UpperCamelSpacedNaming(fieldName string) string {
	var sb strings.Builder
	runes := []rune(fieldName)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// LowerCaseWithSeparator returns a strategy that lower-cases the field name
// and joins word boundaries with sep ("_", "-", or ".").
func LowerCaseWithSeparator(sep string) NamingStrategy {
	return func(fieldName string) string {
		return strings.ToLower(splitWords(fieldName, sep))
	}
}

// UpperCaseWithSeparator returns a strategy that upper-cases the field name
// and joins word boundaries with sep.
func UpperCaseWithSeparator(sep string) NamingStrategy {
	return func(fieldName string) string {
		return strings.ToUpper(splitWords(fieldName, sep))
	}
}

// LowerCamelNaming lower-cases the first rune only: "UserID" -> "userID".
func LowerCamelNaming(fieldName string) string {
	if fieldName == "" {
		return fieldName
	}
	r := []rune(fieldName)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// CamelToUnderscore and UnderscoreToCamel form a convertible pair. Field
// names arriving here are always UpperCamel Go identifiers, so
// CamelToUnderscore is the useful direction for serialization;
// UnderscoreToCamel is provided for symmetry and for naming strategies
// that post-process an already-converted name.
func CamelToUnderscore(fieldName string) string {
	return splitWords(fieldName, "_")
}

func UnderscoreToCamel(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	return sb.String()
}

// splitWords inserts sep at each upper-case word boundary and lower-cases
// nothing itself (callers apply case after).
func splitWords(s, sep string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			sb.WriteString(sep)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// resolveSerialName computes fi's primary JSON member name: an explicit
// `jbind:"name"` (or `json:"name"`) tag value always wins; otherwise the
// engine's configured NamingStrategy is applied to the Go field name.
func resolveSerialName(fi fieldInfo, naming NamingStrategy) string {
	if name, _, ok := tagName(fi.Tags); ok && name != "" && name != "-" {
		return name
	}
	if naming == nil {
		return fi.Name
	}
	return naming(fi.Name)
}

// tagName extracts the member name and alternates from a field's jbind or
// json tag: `jbind:"name,alt1,alt2"` takes precedence over `json:"name"`.
func tagName(tag reflect.StructTag) (name string, alternates []string, ok bool) {
	if v, present := tag.Lookup("jbind"); present {
		parts := strings.Split(v, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], parts[1:], true
		}
	}
	if v, present := tag.Lookup("json"); present {
		parts := strings.Split(v, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil, true
		}
	}
	return "", nil, false
}

// resolveAlternateNames returns the additional accepted names fi's tag
// declares, beyond the primary name already resolved by
// resolveSerialName.
func resolveAlternateNames(fi fieldInfo) []string {
	_, alt, ok := tagName(fi.Tags)
	if !ok {
		return nil
	}
	var out []string
	for _, a := range alt {
		if a == "" || a == "expose" {
			continue
		}
		out = append(out, a)
	}
	return out
}
