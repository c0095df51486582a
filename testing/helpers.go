// Package testing provides shared fixture types and engine builders for
// jbind's integration and benchmark suites.
package testing

import (
	"time"

	"github.com/zoobzio/jbind"
)

// SimpleUser is a fixture with scalar fields only.
type SimpleUser struct {
	ID   string `jbind:"id"`
	Name string `jbind:"name"`
}

// Account is a fixture exercising nested structs, slices, maps, pointers,
// and the time codec in one value.
type Account struct {
	ID      string            `jbind:"id"`
	Owner   SimpleUser        `jbind:"owner"`
	Tags    []string          `jbind:"tags"`
	Limits  map[string]int    `jbind:"limits"`
	Parent  *Account          `jbind:"parent"`
	Created time.Time         `jbind:"created"`
	Extra   map[string]any    `jbind:"extra"`
	Scores  []*int            `jbind:"scores"`
}

// LinkedNode builds cyclic and shared-reference graphs for walker tests.
type LinkedNode struct {
	Label string      `jbind:"label"`
	Next  *LinkedNode `jbind:"next"`
}

// Versioned carries since/until windows for exclusion tests.
type Versioned struct {
	Old string `jbind:"old" until:"2.0"`
	New string `jbind:"new" since:"2.0"`
	All string `jbind:"all"`
}

// NewEngine returns an engine configured the way the integration suite
// expects: deterministic output, nulls omitted.
func NewEngine() *jbind.Engine {
	return jbind.New()
}

// NewLenientEngine returns an engine that tolerates non-standard JSON.
func NewLenientEngine() *jbind.Engine {
	return jbind.New(jbind.WithLenient(true))
}

// SampleAccount returns a fully-populated Account for round-trip tests.
func SampleAccount() Account {
	five := 5
	return Account{
		ID:    "acct-1",
		Owner: SimpleUser{ID: "u1", Name: "Alice"},
		Tags:  []string{"a", "b"},
		Limits: map[string]int{
			"daily": 100,
		},
		Created: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
		Extra:   map[string]any{"note": "x"},
		Scores:  []*int{&five, nil},
	}
}
