package jbind

import (
	"bytes"
	"math"
	"strings"

	jsonio "github.com/zoobzio/jbind/json"
)

// writeJSON drives the json submodule's streaming Writer by walking tree,
// honoring every Engine output option. This is the only place a *Tree ever
// touches text on the way out.
func (e *Engine) writeJSON(tree *Tree) ([]byte, error) {
	if err := validatePretty(e.prettyNewline, e.prettyIndent); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := jsonio.NewWriter(&buf)
	w.SetIndent(e.prettyIndent)
	w.SetNewline(e.prettyNewline)
	w.SetHTMLSafe(e.htmlSafe)

	if e.nonExecutablePrefix {
		if err := w.WriteNonExecutablePrefix(); err != nil {
			return nil, &SyntaxError{Context: "writing non-executable prefix", Cause: err}
		}
	}

	if err := e.writeTreeValue(w, tree); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, &SyntaxError{Context: "flushing JSON output", Cause: err}
	}
	return buf.Bytes(), nil
}

func (e *Engine) writeTreeValue(w *jsonio.Writer, t *Tree) error {
	switch t.Kind() {
	case KindNull:
		return w.NullValue()
	case KindBool:
		b, _ := t.BoolValue()
		return w.BoolValue(b)
	case KindNumber:
		n, _ := t.NumberValue()
		if err := e.checkFiniteNumber(n); err != nil {
			return err
		}
		return w.RawNumberValue(string(n))
	case KindString:
		s, _ := t.StringValue()
		return w.StringValue(s)
	case KindArray:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, elem := range t.Elems() {
			if err := e.writeTreeValue(w, elem); err != nil {
				return err
			}
		}
		return w.EndArray()
	case KindObject:
		if err := w.BeginObject(); err != nil {
			return err
		}
		var err error
		t.Range(func(name string, v *Tree) bool {
			if v.IsNull() && !e.serializeNulls {
				return true
			}
			if err = w.Name(name); err != nil {
				return false
			}
			if err = e.writeTreeValue(w, v); err != nil {
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		return w.EndObject()
	default:
		return &SyntaxError{Context: "unknown tree kind"}
	}
}

// validatePretty enforces the character sets pretty-printing allows: the
// newline text may hold only '\r' and '\n', the indent only spaces and
// tabs.
func validatePretty(newline, indent string) error {
	for _, r := range newline {
		if r != '\r' && r != '\n' {
			return &ConfigurationError{Op: "pretty print", Msg: "newline may contain only \\r and \\n"}
		}
	}
	for _, r := range indent {
		if r != ' ' && r != '\t' {
			return &ConfigurationError{Op: "pretty print", Msg: "indent may contain only spaces and tabs"}
		}
	}
	return nil
}

// checkFiniteNumber rejects NaN/+Inf/-Inf literals unless the Engine was
// built with WithPermitSpecialFloats.
func (e *Engine) checkFiniteNumber(n Number) error {
	if e.permitSpecialFloats {
		return nil
	}
	switch strings.TrimPrefix(string(n), "-") {
	case "NaN", "Infinity":
		f, _ := n.Float64()
		return &InvalidNumberError{Value: f}
	}
	if f, ok := n.Float64(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return &InvalidNumberError{Value: f}
	}
	return nil
}

// readJSON drives the json submodule's streaming Reader to build a *Tree.
func (e *Engine) readJSON(data []byte) (*Tree, error) {
	r := jsonio.NewReader(bytes.NewReader(data))
	r.SetLenient(e.lenient)

	if e.nonExecutablePrefix {
		if err := r.SkipNonExecutablePrefix(); err != nil {
			return nil, &SyntaxError{Context: "skipping non-executable prefix", Cause: err}
		}
	}
	return e.readTreeValue(r)
}

func (e *Engine) readTreeValue(r *jsonio.Reader) (*Tree, error) {
	kind, err := r.Peek()
	if err != nil {
		return nil, &SyntaxError{Context: "reading JSON", Cause: err}
	}
	switch kind {
	case jsonio.KindNull:
		if err := r.NextNull(); err != nil {
			return nil, &SyntaxError{Context: "reading null", Cause: err}
		}
		return Null(), nil
	case jsonio.KindBool:
		b, err := r.NextBool()
		if err != nil {
			return nil, &SyntaxError{Context: "reading bool", Cause: err}
		}
		return Bool(b), nil
	case jsonio.KindNumber:
		n, err := r.NextNumber()
		if err != nil {
			return nil, &SyntaxError{Context: "reading number", Cause: err}
		}
		return NumberTree(Number(n)), nil
	case jsonio.KindString:
		s, err := r.NextString()
		if err != nil {
			return nil, &SyntaxError{Context: "reading string", Cause: err}
		}
		return String(s), nil
	case jsonio.KindBeginArray:
		if err := r.BeginArray(); err != nil {
			return nil, &SyntaxError{Context: "reading array", Cause: err}
		}
		arr := Array()
		for {
			has, err := r.HasNext()
			if err != nil {
				return nil, &SyntaxError{Context: "reading array element", Cause: err}
			}
			if !has {
				break
			}
			elem, err := e.readTreeValue(r)
			if err != nil {
				return nil, err
			}
			arr.Append(elem)
		}
		if err := r.EndArray(); err != nil {
			return nil, &SyntaxError{Context: "closing array", Cause: err}
		}
		return arr, nil
	case jsonio.KindBeginObject:
		if err := r.BeginObject(); err != nil {
			return nil, &SyntaxError{Context: "reading object", Cause: err}
		}
		obj := Object()
		for {
			has, err := r.HasNext()
			if err != nil {
				return nil, &SyntaxError{Context: "reading object member", Cause: err}
			}
			if !has {
				break
			}
			name, err := r.NextName()
			if err != nil {
				return nil, &SyntaxError{Context: "reading member name", Cause: err}
			}
			val, err := e.readTreeValue(r)
			if err != nil {
				return nil, err
			}
			obj.SetMember(name, val)
		}
		if err := r.EndObject(); err != nil {
			return nil, &SyntaxError{Context: "closing object", Cause: err}
		}
		return obj, nil
	default:
		return nil, &SyntaxError{Context: "unexpected end of JSON input"}
	}
}
