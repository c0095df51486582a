package jbind_test

import (
	"reflect"
	"testing"

	"github.com/zoobzio/jbind"
)

func TestDescribeTypeFillsContainerSlots(t *testing.T) {
	d := jbind.DescribeType(reflect.TypeOf(map[string][]int{}))
	if d.Kind() != reflect.Map {
		t.Fatalf("Kind = %v", d.Kind())
	}
	if d.Key == nil || d.Key.Raw.Kind() != reflect.String {
		t.Error("key slot not filled")
	}
	if d.Value == nil || d.Value.Raw.Kind() != reflect.Slice {
		t.Fatal("value slot not filled")
	}
	if d.Value.Elem == nil || d.Value.Elem.Raw.Kind() != reflect.Int {
		t.Error("nested element slot not filled")
	}
}

func TestDescriptorsAreInterned(t *testing.T) {
	a := jbind.DescribeType(reflect.TypeOf([]string{}))
	b := jbind.DescribeType(reflect.TypeOf([]string{}))
	if a != b {
		t.Error("two descriptors for the same type should compare equal with ==")
	}
	if !a.Equal(b) {
		t.Error("Equal should agree with ==")
	}
}

func TestTypeEqual(t *testing.T) {
	a := jbind.DescribeType(reflect.TypeOf([]int{}))
	b := jbind.DescribeType(reflect.TypeOf([]string{}))
	if a.Equal(b) {
		t.Error("[]int and []string should not be equal")
	}
	if !a.RawOnly().Equal(jbind.Type{Raw: reflect.TypeOf([]int{})}) {
		t.Error("RawOnly should drop generic slots")
	}
}

func TestDynamicDescriptor(t *testing.T) {
	if !jbind.Dynamic.IsDynamic() {
		t.Error("Dynamic should report IsDynamic")
	}
	d := jbind.DescribeType(reflect.TypeOf(map[string]any{}))
	if d.Value == nil || !d.Value.IsDynamic() {
		t.Error("an `any` value slot should be the dynamic descriptor")
	}
}

func TestScanRegistersAndDescribes(t *testing.T) {
	type scanned struct {
		ID   string `jbind:"id"`
		Size int    `jbind:"size"`
	}
	d := jbind.Scan[scanned]()
	if d.Raw != reflect.TypeOf(scanned{}) {
		t.Fatalf("Scan returned descriptor for %v", d.Raw)
	}

	// The scanned type must bind identically to an unscanned one.
	out, err := jbind.ToJSON(scanned{ID: "a", Size: 2})
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if string(out) != `{"id":"a","size":2}` {
		t.Errorf("ToJSON = %s", out)
	}
}
