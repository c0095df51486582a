package json

import (
	"strings"
	"testing"
)

func TestWriterCompactObject(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	if err := w.BeginObject(); err != nil {
		t.Fatalf("BeginObject: %v", err)
	}
	if err := w.Name("name"); err != nil {
		t.Fatalf("Name: %v", err)
	}
	if err := w.StringValue("ada"); err != nil {
		t.Fatalf("StringValue: %v", err)
	}
	if err := w.Name("age"); err != nil {
		t.Fatalf("Name: %v", err)
	}
	if err := w.RawNumberValue("36"); err != nil {
		t.Fatalf("RawNumberValue: %v", err)
	}
	if err := w.Name("active"); err != nil {
		t.Fatalf("Name: %v", err)
	}
	if err := w.BoolValue(true); err != nil {
		t.Fatalf("BoolValue: %v", err)
	}
	if err := w.EndObject(); err != nil {
		t.Fatalf("EndObject: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := `{"name":"ada","age":36,"active":true}`
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterPrettyArray(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.SetIndent("  ")
	w.BeginArray()
	w.RawNumberValue("1")
	w.RawNumberValue("2")
	w.EndArray()
	w.Flush()

	want := "[\n  1,\n  2\n]"
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterHTMLSafe(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.SetHTMLSafe(true)
	w.StringValue("<script>&</script>")
	w.Flush()

	got := sb.String()
	if strings.Contains(got, "<script>") {
		t.Errorf("expected HTML-unsafe characters escaped, got %q", got)
	}
}

func TestReaderRoundTrip(t *testing.T) {
	src := `{"name":"ada","tags":["x","y"],"active":true,"missing":null,"pi":3.5}`
	r := NewReader(strings.NewReader(src))

	if err := r.BeginObject(); err != nil {
		t.Fatalf("BeginObject: %v", err)
	}
	for {
		has, err := r.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !has {
			break
		}
		name, err := r.NextName()
		if err != nil {
			t.Fatalf("NextName: %v", err)
		}
		switch name {
		case "name":
			s, err := r.NextString()
			if err != nil || s != "ada" {
				t.Fatalf("name = %q, %v", s, err)
			}
		case "tags":
			if err := r.BeginArray(); err != nil {
				t.Fatalf("BeginArray: %v", err)
			}
			var got []string
			for {
				has, err := r.HasNext()
				if err != nil {
					t.Fatalf("HasNext (array): %v", err)
				}
				if !has {
					break
				}
				s, err := r.NextString()
				if err != nil {
					t.Fatalf("NextString: %v", err)
				}
				got = append(got, s)
			}
			if err := r.EndArray(); err != nil {
				t.Fatalf("EndArray: %v", err)
			}
			if len(got) != 2 || got[0] != "x" || got[1] != "y" {
				t.Fatalf("tags = %v", got)
			}
		case "active":
			b, err := r.NextBool()
			if err != nil || !b {
				t.Fatalf("active = %v, %v", b, err)
			}
		case "missing":
			if err := r.NextNull(); err != nil {
				t.Fatalf("NextNull: %v", err)
			}
		case "pi":
			n, err := r.NextNumber()
			if err != nil || n != "3.5" {
				t.Fatalf("pi = %q, %v", n, err)
			}
		default:
			t.Fatalf("unexpected member %q", name)
		}
	}
	if err := r.EndObject(); err != nil {
		t.Fatalf("EndObject: %v", err)
	}
}

func TestReaderNonExecutablePrefix(t *testing.T) {
	src := ")]}'\n{\"a\":1}"
	r := NewReader(strings.NewReader(src))
	if err := r.SkipNonExecutablePrefix(); err != nil {
		t.Fatalf("SkipNonExecutablePrefix: %v", err)
	}
	if err := r.BeginObject(); err != nil {
		t.Fatalf("BeginObject: %v", err)
	}
	name, err := r.NextName()
	if err != nil || name != "a" {
		t.Fatalf("name = %q, %v", name, err)
	}
	n, err := r.NextNumber()
	if err != nil || n != "1" {
		t.Fatalf("value = %q, %v", n, err)
	}
	if err := r.EndObject(); err != nil {
		t.Fatalf("EndObject: %v", err)
	}
}

func TestReaderLenientTrailingComma(t *testing.T) {
	r := NewReader(strings.NewReader(`[1,2,]`))
	r.SetLenient(true)
	if err := r.BeginArray(); err != nil {
		t.Fatalf("BeginArray: %v", err)
	}
	var got []string
	for {
		has, err := r.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !has {
			break
		}
		n, err := r.NextNumber()
		if err != nil {
			t.Fatalf("NextNumber: %v", err)
		}
		got = append(got, n)
	}
	if err := r.EndArray(); err != nil {
		t.Fatalf("EndArray: %v", err)
	}
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("elements = %v", got)
	}
}

func TestReaderStrictRejectsTrailingComma(t *testing.T) {
	r := NewReader(strings.NewReader(`{"a":1,}`))
	if err := r.BeginObject(); err != nil {
		t.Fatalf("BeginObject: %v", err)
	}
	if _, err := r.NextName(); err != nil {
		t.Fatalf("NextName: %v", err)
	}
	if _, err := r.NextNumber(); err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	has, err := r.HasNext()
	if err != nil {
		t.Fatalf("HasNext: %v", err)
	}
	if !has {
		t.Fatal("strict HasNext should see the comma and report another member")
	}
	if _, err := r.NextName(); err == nil {
		t.Error("strict NextName after trailing comma should fail")
	}
}

func TestReaderLenientCommentsAndQuotes(t *testing.T) {
	src := "// header\n{a:'x', /* mid */ \"b\":2, # tail\n}"
	r := NewReader(strings.NewReader(src))
	r.SetLenient(true)
	if err := r.BeginObject(); err != nil {
		t.Fatalf("BeginObject: %v", err)
	}
	name, err := r.NextName()
	if err != nil || name != "a" {
		t.Fatalf("NextName = %q, %v", name, err)
	}
	s, err := r.NextString()
	if err != nil || s != "x" {
		t.Fatalf("NextString = %q, %v", s, err)
	}
	name, err = r.NextName()
	if err != nil || name != "b" {
		t.Fatalf("NextName = %q, %v", name, err)
	}
	n, err := r.NextNumber()
	if err != nil || n != "2" {
		t.Fatalf("NextNumber = %q, %v", n, err)
	}
	has, err := r.HasNext()
	if err != nil {
		t.Fatalf("HasNext: %v", err)
	}
	if has {
		t.Fatal("object should be exhausted")
	}
	if err := r.EndObject(); err != nil {
		t.Fatalf("EndObject: %v", err)
	}
}

func TestReaderSpecialFloatLiterals(t *testing.T) {
	r := NewReader(strings.NewReader(`NaN`))
	r.SetLenient(true)
	n, err := r.NextNumber()
	if err != nil || n != "NaN" {
		t.Fatalf("lenient NextNumber = %q, %v", n, err)
	}

	r = NewReader(strings.NewReader(`NaN`))
	if _, err := r.NextNumber(); err == nil {
		t.Error("strict NextNumber should reject NaN")
	}
}

func TestWriterCustomNewline(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.SetIndent("\t")
	w.SetNewline("\r\n")
	w.BeginArray()
	w.RawNumberValue("1")
	w.EndArray()
	w.Flush()

	want := "[\r\n\t1\r\n]"
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterHTMLSafeExtendedSet(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.SetHTMLSafe(true)
	w.StringValue("a='1'&b=2")
	w.Flush()

	got := sb.String()
	for _, banned := range []string{"=", "'", "&"} {
		if strings.Contains(got, banned) {
			t.Errorf("output %q still contains %q", got, banned)
		}
	}
}
