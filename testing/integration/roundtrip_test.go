package integration

import (
	"errors"
	"testing"

	"github.com/zoobzio/jbind"
	jbindtest "github.com/zoobzio/jbind/testing"
	"gopkg.in/yaml.v3"
)

// parseCase is one document-level scenario, authored in YAML below so new
// cases can be added without touching Go code.
type parseCase struct {
	Name    string `yaml:"name"`
	Input   string `yaml:"input"`
	Lenient bool   `yaml:"lenient"`
	WantErr string `yaml:"want_err"` // "", "syntax"
	Output  string `yaml:"output"`   // expected re-serialization, if no error
}

const parseCases = `
- name: plain object
  input: '{"id":"u1","name":"Alice"}'
  output: '{"id":"u1","name":"Alice"}'

- name: trailing comma strict
  input: '{"id":"u1","name":"Alice",}'
  want_err: syntax

- name: trailing comma lenient
  input: '{"id":"u1","name":"Alice",}'
  lenient: true
  output: '{"id":"u1","name":"Alice"}'

- name: single quotes lenient
  input: "{'id':'u1','name':'Alice'}"
  lenient: true
  output: '{"id":"u1","name":"Alice"}'

- name: unquoted names lenient
  input: '{id:"u1",name:"Alice"}'
  lenient: true
  output: '{"id":"u1","name":"Alice"}'

- name: comments lenient
  input: "{\"id\":\"u1\", // note\n\"name\":\"Alice\"}"
  lenient: true
  output: '{"id":"u1","name":"Alice"}'

- name: comments strict
  input: "{\"id\":\"u1\", // note\n\"name\":\"Alice\"}"
  want_err: syntax

- name: unknown member ignored
  input: '{"id":"u1","name":"Alice","extra":1}'
  output: '{"id":"u1","name":"Alice"}'
`

func TestDocumentParsing(t *testing.T) {
	var cases []parseCase
	if err := yaml.Unmarshal([]byte(parseCases), &cases); err != nil {
		t.Fatalf("fixture yaml: %v", err)
	}
	typ := jbind.TypeOf(jbindtest.SimpleUser{})

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			eng := jbindtest.NewEngine()
			if tc.Lenient {
				eng = jbindtest.NewLenientEngine()
			}
			got, err := eng.FromJSON([]byte(tc.Input), typ)
			switch tc.WantErr {
			case "syntax":
				if !errors.Is(err, jbind.ErrSyntax) {
					t.Fatalf("err = %v, want ErrSyntax", err)
				}
				return
			case "":
				if err != nil {
					t.Fatalf("FromJSON: %v", err)
				}
			default:
				t.Fatalf("unknown want_err %q", tc.WantErr)
			}

			out, err := eng.ToJSON(got, typ)
			if err != nil {
				t.Fatalf("ToJSON: %v", err)
			}
			if string(out) != tc.Output {
				t.Errorf("re-serialized = %s, want %s", out, tc.Output)
			}
		})
	}
}

func TestAccountRoundTripAcrossEngines(t *testing.T) {
	in := jbindtest.SampleAccount()
	typ := jbind.TypeOf(in)

	writer := jbindtest.NewEngine()
	data, err := writer.ToJSON(in, typ)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	// A fresh engine with its own cold cache must read what another wrote.
	reader := jbindtest.NewEngine()
	got, err := reader.FromJSON(data, typ)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	acct := got.(jbindtest.Account)
	if acct.Owner != in.Owner || acct.ID != in.ID {
		t.Errorf("round trip = %+v", acct)
	}
}

func TestCycleFailsAcrossDocumentBoundary(t *testing.T) {
	a := &jbindtest.LinkedNode{Label: "a"}
	b := &jbindtest.LinkedNode{Label: "b"}
	a.Next = b
	b.Next = a

	eng := jbindtest.NewEngine()
	if _, err := eng.ToJSON(a, jbind.TypeOf(a)); !errors.Is(err, jbind.ErrCyclicReference) {
		t.Errorf("err = %v, want ErrCyclicReference", err)
	}
}

func TestVersionedFixture(t *testing.T) {
	in := jbindtest.Versioned{Old: "o", New: "n", All: "a"}
	eng := jbind.New(jbind.WithVersion(2.0))
	out, err := eng.ToJSON(in, jbind.TypeOf(in))
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if string(out) != `{"new":"n","all":"a"}` {
		t.Errorf("ToJSON = %s", out)
	}
}
