package jbind_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/jbind"
)

// markerCodec writes a fixed string so tests can tell which registration
// won a lookup.
func markerCodec(marker string) jbind.Codec {
	return jbind.NewCodec(
		func(_ reflect.Value, _ jbind.Type) (*jbind.Tree, error) {
			return jbind.String(marker), nil
		},
		nil, nil,
	)
}

func writeMarker(t *testing.T, c jbind.Codec, typ jbind.Type) string {
	t.Helper()
	tree, err := c.Write(reflect.Zero(typ.Raw), typ)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	s, _ := tree.StringValue()
	return s
}

type labeled interface {
	Label() string
}

type widget struct{ Name string }

func (widget) Label() string { return "widget" }

func TestLookupExactBeatsHierarchy(t *testing.T) {
	reg := jbind.NewRegistry()
	typ := jbind.TypeOf(widget{})
	base := reflect.TypeOf((*labeled)(nil)).Elem()

	if err := reg.RegisterHierarchy(base, markerCodec("hierarchy")); err != nil {
		t.Fatalf("RegisterHierarchy: %v", err)
	}
	if err := reg.RegisterExact(typ, markerCodec("exact")); err != nil {
		t.Fatalf("RegisterExact: %v", err)
	}

	c, ok := reg.Lookup(typ)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if got := writeMarker(t, c, typ); got != "exact" {
		t.Errorf("lookup resolved %q, want exact", got)
	}
}

func TestHierarchyMostRecentWins(t *testing.T) {
	reg := jbind.NewRegistry()
	typ := jbind.TypeOf(widget{})
	base := reflect.TypeOf((*labeled)(nil)).Elem()

	reg.RegisterHierarchy(base, markerCodec("first"))
	reg.RegisterHierarchy(base, markerCodec("second"))

	c, ok := reg.Lookup(typ)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if got := writeMarker(t, c, typ); got != "second" {
		t.Errorf("lookup resolved %q, want second (most recent)", got)
	}
}

func TestRegisterExactIfAbsentKeepsPrior(t *testing.T) {
	reg := jbind.NewRegistry()
	typ := jbind.TypeOf(widget{})

	reg.RegisterExact(typ, markerCodec("prior"))
	if err := reg.RegisterExactIfAbsent(typ, markerCodec("late")); err != nil {
		t.Fatalf("RegisterExactIfAbsent: %v", err)
	}

	c, _ := reg.Lookup(typ)
	if got := writeMarker(t, c, typ); got != "prior" {
		t.Errorf("lookup resolved %q, want prior", got)
	}
}

func TestFreezeLatch(t *testing.T) {
	reg := jbind.NewRegistry()
	typ := jbind.TypeOf(widget{})
	reg.Freeze()

	if err := reg.RegisterExact(typ, markerCodec("x")); !errors.Is(err, jbind.ErrConfiguration) {
		t.Errorf("RegisterExact after freeze: err = %v, want ErrConfiguration", err)
	}
	if err := reg.RegisterExactIfAbsent(typ, markerCodec("x")); !errors.Is(err, jbind.ErrConfiguration) {
		t.Errorf("RegisterExactIfAbsent after freeze: err = %v, want ErrConfiguration", err)
	}
	base := reflect.TypeOf((*labeled)(nil)).Elem()
	if err := reg.RegisterHierarchy(base, markerCodec("x")); !errors.Is(err, jbind.ErrConfiguration) {
		t.Errorf("RegisterHierarchy after freeze: err = %v, want ErrConfiguration", err)
	}
	if !reg.Frozen() {
		t.Error("Frozen() should report true")
	}
}

func TestCloneIsIndependentAndUnfrozen(t *testing.T) {
	reg := jbind.NewRegistry()
	typ := jbind.TypeOf(widget{})
	reg.RegisterExact(typ, markerCodec("orig"))
	reg.Freeze()

	clone := reg.Clone()
	if clone.Frozen() {
		t.Error("clone should be mutable even when the source is frozen")
	}
	if err := clone.RegisterExact(typ, markerCodec("clone")); err != nil {
		t.Fatalf("RegisterExact on clone: %v", err)
	}

	c, _ := reg.Lookup(typ)
	if got := writeMarker(t, c, typ); got != "orig" {
		t.Errorf("source lookup resolved %q after clone mutation", got)
	}
	c, _ = clone.Lookup(typ)
	if got := writeMarker(t, c, typ); got != "clone" {
		t.Errorf("clone lookup resolved %q", got)
	}
}

func TestMergeAppendsHierarchyEntries(t *testing.T) {
	base := reflect.TypeOf((*labeled)(nil)).Elem()
	typ := jbind.TypeOf(widget{})

	a := jbind.NewRegistry()
	a.RegisterHierarchy(base, markerCodec("a"))
	b := jbind.NewRegistry()
	b.RegisterHierarchy(base, markerCodec("b"))

	if err := a.Merge(b); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	c, _ := a.Lookup(typ)
	if got := writeMarker(t, c, typ); got != "b" {
		t.Errorf("merged lookup resolved %q, want b (merged entries are newer)", got)
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	reg := jbind.NewRegistry()
	if _, ok := reg.Lookup(jbind.TypeOf(widget{})); ok {
		t.Error("empty registry should miss")
	}
}
