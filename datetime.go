package jbind

import (
	"reflect"
	"sync"
	"time"
)

// isoDateLayout is the last-resort parse layout and the default
// serialization layout: ISO-8601 with a numeric or Z offset.
const isoDateLayout = "2006-01-02T15:04:05Z07:00"

// DateStyle selects one of the predefined date layouts, the coarse-grained
// alternative to supplying a full pattern with WithDatePattern.
type DateStyle int

const (
	// DateStyleDefault keeps the ISO-8601 layout.
	DateStyleDefault DateStyle = iota
	// DateStyleShort renders like "1/2/06 3:04 PM".
	DateStyleShort
	// DateStyleMedium renders like "Jan 2, 2006 3:04:05 PM".
	DateStyleMedium
	// DateStyleLong renders like "January 2, 2006 3:04:05 PM MST".
	DateStyleLong
)

func styleLayout(style DateStyle) string {
	switch style {
	case DateStyleShort:
		return "1/2/06 3:04 PM"
	case DateStyleMedium:
		return "Jan 2, 2006 3:04:05 PM"
	case DateStyleLong:
		return "January 2, 2006 3:04:05 PM MST"
	default:
		return ""
	}
}

// dateCodec serializes all format/parse calls through its own lock.
// Go's time package is goroutine-safe, but a configured pattern may be
// handed on to a non-reentrant formatter by a caller's codec override, and
// the codec contract promises safe concurrent use either way.
type dateCodec struct {
	mu      sync.Mutex
	pattern string // configured primary layout, Go reference-time syntax
}

// newDateCodec returns a codec for time.Time using pattern as the primary
// serialization layout. An empty pattern falls back directly to the
// ISO-8601 form.
func newDateCodec(pattern string) Codec {
	return &dateCodec{pattern: pattern}
}

func (d *dateCodec) Kind() CodecKind { return Combined | KindCreator }

func (d *dateCodec) Write(v reflect.Value, _ Type) (*Tree, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := v.Interface().(time.Time)
	if !ok {
		return nil, &SyntaxError{Context: "value is not time.Time"}
	}
	layout := d.pattern
	if layout == "" {
		layout = isoDateLayout
	}
	return String(t.UTC().Format(layout)), nil
}

// Read tries, in order: the configured pattern, RFC3339, then the
// ISO-8601 layout. First success wins; SyntaxError only if every attempt
// fails.
func (d *dateCodec) Read(t *Tree, typ Type) (reflect.Value, error) {
	if t.IsNull() {
		return reflect.Zero(typ.Raw), nil
	}
	s, ok := t.StringValue()
	if !ok {
		return reflect.Value{}, &SyntaxError{Context: "expected string for date"}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, layout := range d.candidateLayouts() {
		if parsed, err := time.Parse(layout, s); err == nil {
			return reflect.ValueOf(parsed), nil
		}
	}
	return reflect.Value{}, &SyntaxError{Context: "unparseable date " + s}
}

func (d *dateCodec) candidateLayouts() []string {
	layouts := make([]string, 0, 3)
	if d.pattern != "" {
		layouts = append(layouts, d.pattern)
	}
	layouts = append(layouts, time.RFC3339, isoDateLayout)
	return layouts
}

func (d *dateCodec) CreateEmpty(_ Type) (reflect.Value, error) {
	return reflect.ValueOf(time.Time{}), nil
}

// calendarCodec renders a GregorianCalendar as an object with
// year/month/dayOfMonth/hourOfDay/minute/second members. Registered under
// a distinct named type (see misc.go) rather than time.Time itself, since
// time.Time already owns the dateCodec registration above.
func calendarCodec() Codec {
	return NewCodec(
		func(v reflect.Value, _ Type) (*Tree, error) {
			gc, ok := v.Interface().(GregorianCalendar)
			if !ok {
				return nil, &SyntaxError{Context: "value is not GregorianCalendar"}
			}
			t := time.Time(gc).UTC()
			obj := Object()
			obj.SetMember("year", Int(int64(t.Year())))
			obj.SetMember("month", Int(int64(t.Month())-1)) // month member is 0-based
			obj.SetMember("dayOfMonth", Int(int64(t.Day())))
			obj.SetMember("hourOfDay", Int(int64(t.Hour())))
			obj.SetMember("minute", Int(int64(t.Minute())))
			obj.SetMember("second", Int(int64(t.Second())))
			return obj, nil
		},
		func(tr *Tree, typ Type) (reflect.Value, error) {
			if tr.IsNull() {
				return reflect.Zero(typ.Raw), nil
			}
			if !tr.IsObject() {
				return reflect.Value{}, &SyntaxError{Context: "expected object for GregorianCalendar"}
			}
			get := func(name string) int {
				m, ok := tr.Member(name)
				if !ok {
					return 0
				}
				n, _ := m.NumberValue()
				i, _ := n.Int64()
				return int(i)
			}
			t := time.Date(get("year"), time.Month(get("month")+1), get("dayOfMonth"),
				get("hourOfDay"), get("minute"), get("second"), 0, time.UTC)
			return reflect.ValueOf(GregorianCalendar(t)), nil
		},
		func(typ Type) (reflect.Value, error) { return reflect.Zero(typ.Raw), nil },
	)
}
