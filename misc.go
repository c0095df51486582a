package jbind

import (
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// GregorianCalendar is a time.Time that serializes as a calendar-fields
// object rather than a formatted string. A named wrapper type, since a
// Registry entry is keyed by exact reflect.Type and time.Time itself
// already serializes via dateCodec.
type GregorianCalendar time.Time

// Locale is a language/country/variant triple, serialized as
// `language[_country[_variant]]`.
type Locale struct {
	Language string
	Country  string
	Variant  string
}

// String renders the canonical `language[_country[_variant]]` form.
func (l Locale) String() string {
	parts := []string{l.Language}
	if l.Country != "" {
		parts = append(parts, l.Country)
	}
	if l.Variant != "" {
		parts = append(parts, l.Variant)
	}
	return strings.Join(parts, "_")
}

// ParseLocale parses the canonical Locale form back into its parts.
func ParseLocale(s string) Locale {
	parts := strings.SplitN(s, "_", 3)
	l := Locale{}
	if len(parts) > 0 {
		l.Language = parts[0]
	}
	if len(parts) > 1 {
		l.Country = parts[1]
	}
	if len(parts) > 2 {
		l.Variant = parts[2]
	}
	return l
}

// BitSet serializes as an array of 0|1 by bit position.
type BitSet []bool

// registerMisc seeds reg with the built-in reference codecs not otherwise
// covered by datetime.go or uuidcodec.go: URL, Locale, BitSet,
// GregorianCalendar, and net.IP.
func registerMisc(reg *Registry) {
	lt, lc := localeCodec()
	mustRegister(reg, lt, lc)
	bt, bc := bitSetCodec()
	mustRegister(reg, bt, bc)
	ut, uc := urlCodec()
	mustRegister(reg, ut, uc)
	it, ic := inetAddrCodec()
	mustRegister(reg, it, ic)
	mustRegister(reg, TypeOf(GregorianCalendar{}), calendarCodec())
}

func localeCodec() (Type, Codec) {
	typ := TypeOf(Locale{})
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			return String(v.Interface().(Locale).String()), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			s, ok := t.StringValue()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "expected string for Locale"}
			}
			return reflect.ValueOf(ParseLocale(s)), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func bitSetCodec() (Type, Codec) {
	typ := TypeOf(BitSet{})
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			bs := v.Interface().(BitSet)
			arr := Array()
			for _, b := range bs {
				if b {
					arr.Append(Int(1))
				} else {
					arr.Append(Int(0))
				}
			}
			return arr, nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			if !t.IsArray() {
				return reflect.Value{}, &SyntaxError{Context: "expected array for BitSet"}
			}
			elems := t.Elems()
			bs := make(BitSet, len(elems))
			for i, e := range elems {
				n, ok := e.NumberValue()
				if !ok {
					return reflect.Value{}, &SyntaxError{Context: "expected 0|1 in BitSet array"}
				}
				iv, _ := n.Int64()
				bs[i] = iv != 0
			}
			return reflect.ValueOf(bs), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

func urlCodec() (Type, Codec) {
	typ := TypeOf(url.URL{})
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			u := v.Interface().(url.URL)
			return String(u.String()), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			s, ok := t.StringValue()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "expected string for URL"}
			}
			u, err := url.Parse(s)
			if err != nil {
				return reflect.Value{}, &SyntaxError{Context: "malformed URL " + s, Cause: err}
			}
			return reflect.ValueOf(*u), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}

// inetAddrCodec handles net.IP: dotted/colon text form in both
// directions.
func inetAddrCodec() (Type, Codec) {
	typ := TypeOf(net.IP{})
	return typ, NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			ip := v.Interface().(net.IP)
			return String(ip.String()), nil
		},
		func(t *Tree, typ Type) (reflect.Value, error) {
			if t.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			s, ok := t.StringValue()
			if !ok {
				return reflect.Value{}, &SyntaxError{Context: "expected string for net.IP"}
			}
			ip := net.ParseIP(s)
			if ip == nil {
				return reflect.Value{}, &SyntaxError{Context: "malformed IP address " + s}
			}
			return reflect.ValueOf(ip), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}
