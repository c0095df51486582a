package jbind_test

import (
	"testing"

	"github.com/zoobzio/jbind"
)

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := jbind.Object()
	obj.SetMember("z", jbind.Int(1))
	obj.SetMember("a", jbind.Int(2))
	obj.SetMember("m", jbind.Int(3))

	keys := obj.Keys()
	want := []string{"z", "a", "m"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestObjectSetExistingMemberKeepsPosition(t *testing.T) {
	obj := jbind.Object()
	obj.SetMember("a", jbind.Int(1))
	obj.SetMember("b", jbind.Int(2))
	obj.SetMember("a", jbind.Int(3))

	keys := obj.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b]", keys)
	}
	v, _ := obj.Member("a")
	if n, _ := v.NumberValue(); n != "3" {
		t.Errorf("member a = %v, want 3", n)
	}
}

func TestNilMemberStoredAsNull(t *testing.T) {
	obj := jbind.Object()
	obj.SetMember("gone", nil)
	v, ok := obj.Member("gone")
	if !ok {
		t.Fatal("member should be present")
	}
	if !v.IsNull() {
		t.Errorf("member kind = %v, want null", v.Kind())
	}
}

func TestNullSingleton(t *testing.T) {
	if jbind.Null() != jbind.Null() {
		t.Error("Null() should return the same instance")
	}
	if jbind.Null().DeepCopy() != jbind.Null() {
		t.Error("DeepCopy of Null should return the singleton")
	}
}

func TestDeepCopyIndependence(t *testing.T) {
	orig := jbind.Object()
	orig.SetMember("list", jbind.Array(jbind.Int(1), jbind.Null()))
	orig.SetMember("name", jbind.String("x"))

	cp := orig.DeepCopy()
	if !jbind.Equal(orig, cp) {
		t.Fatal("copy should equal original")
	}
	cp.SetMember("name", jbind.String("y"))
	if jbind.Equal(orig, cp) {
		t.Error("mutating the copy should not affect the original")
	}
	v, _ := orig.Member("name")
	if s, _ := v.StringValue(); s != "x" {
		t.Errorf("original mutated: name = %q", s)
	}
}

func TestEqualStructural(t *testing.T) {
	tests := []struct {
		name string
		a, b *jbind.Tree
		want bool
	}{
		{"nulls", jbind.Null(), jbind.Null(), true},
		{"bools", jbind.Bool(true), jbind.Bool(true), true},
		{"bool mismatch", jbind.Bool(true), jbind.Bool(false), false},
		{"numbers by value", jbind.NumberTree("10"), jbind.NumberTree("1e1"), true},
		{"strings", jbind.String("a"), jbind.String("a"), true},
		{"kind mismatch", jbind.String("1"), jbind.Int(1), false},
		{"arrays", jbind.Array(jbind.Int(1), jbind.Null()), jbind.Array(jbind.Int(1), jbind.Null()), true},
		{"array length", jbind.Array(jbind.Int(1)), jbind.Array(), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := jbind.Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestObjectEqualityIgnoresMemberOrder(t *testing.T) {
	a := jbind.Object()
	a.SetMember("x", jbind.Int(1))
	a.SetMember("y", jbind.Int(2))
	b := jbind.Object()
	b.SetMember("y", jbind.Int(2))
	b.SetMember("x", jbind.Int(1))
	if !jbind.Equal(a, b) {
		t.Error("objects with the same members should be equal regardless of order")
	}
}

func TestTreeStringIsLenient(t *testing.T) {
	// String() must never fault, even on non-finite numbers.
	arr := jbind.Array(jbind.NumberTree("NaN"), jbind.NumberTree("Infinity"))
	got := arr.String()
	if got != "[NaN,Infinity]" {
		t.Errorf("String() = %q", got)
	}
}

func TestDeleteMember(t *testing.T) {
	obj := jbind.Object()
	obj.SetMember("a", jbind.Int(1))
	obj.SetMember("b", jbind.Int(2))
	obj.SetMember("c", jbind.Int(3))
	obj.DeleteMember("b")

	keys := obj.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("Keys() after delete = %v", keys)
	}
	if _, ok := obj.Member("b"); ok {
		t.Error("deleted member still present")
	}
	// Index map must be reindexed after the shift.
	v, ok := obj.Member("c")
	if !ok {
		t.Fatal("member c lost after delete")
	}
	if n, _ := v.NumberValue(); n != "3" {
		t.Errorf("member c = %v, want 3", n)
	}
}
