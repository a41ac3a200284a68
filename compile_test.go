package skema_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/skema"
)

func TestCompile_Errors(t *testing.T) {
	cases := []struct {
		name       string
		schema     any
		opts       skema.Options
		schemaPath string
	}{
		{"scalar schema", 42, skema.Options{}, "#"},
		{"unknown type", m{"type": "strin"}, skema.Options{}, "#/type"},
		{"items scalar", m{"items": 3}, skema.Options{}, "#/items"},
		{"properties array", m{"properties": a{}}, skema.Options{}, "#/properties"},
		{"required string", m{"required": "a"}, skema.Options{}, "#/required"},
		{"required element", m{"required": a{1}}, skema.Options{}, "#/required"},
		{"negative limit", m{"minItems": -1}, skema.Options{}, "#/minItems"},
		{"fractional limit", m{"maxLength": 1.5}, skema.Options{}, "#/maxLength"},
		{"enum scalar", m{"enum": "x"}, skema.Options{}, "#/enum"},
		{"empty allOf", m{"allOf": a{}}, skema.Options{}, "#/allOf"},
		{"zero multipleOf", m{"multipleOf": 0}, skema.Options{}, "#/multipleOf"},
		{"nested", m{"properties": m{"a~b": m{"type": 1}}}, skema.Options{}, "#/properties/a~0b/type"},
		{"tuple element", m{"items": a{true, "x"}}, skema.Options{}, "#/items/1"},
		{"missing ref", m{"$ref": "#/definitions/missing"}, skema.Options{}, "#/$ref"},
		{"remote ref", m{"$ref": "http://example.com/s.json"}, skema.Options{}, "#/$ref"},
		{"bad defaults mode", m{}, skema.Options{UseDefaults: skema.DefaultsMode(9)}, "#"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := skema.Compile(tc.schema, tc.opts)
			if err == nil || v != nil {
				t.Fatalf("expected compile error, got %v", v)
			}
			if !errors.Is(err, skema.ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
			var ce *skema.CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CompileError, got %T", err)
			}
			if ce.SchemaPath != tc.schemaPath {
				t.Fatalf("expected path %s, got %s (%v)", tc.schemaPath, ce.SchemaPath, err)
			}
		})
	}
}

func TestCompile_RecursiveRef(t *testing.T) {
	v := skema.MustCompile(m{
		"type": "object",
		"properties": m{
			"value":    m{"type": "number"},
			"children": m{"type": "array", "items": m{"$ref": "#"}},
		},
		"required": a{"value"},
	}, skema.Options{AllErrors: true})

	ok := m{"value": 1, "children": a{m{"value": 2, "children": a{m{"value": 3}}}}}
	if r := v.Check(ok); !r.Valid {
		t.Fatalf("expected valid, got %v", r.Issues)
	}

	bad := m{"value": 1, "children": a{m{"value": 2, "children": a{m{"value": "x"}, m{}}}}}
	r := v.Check(bad)
	var got []string
	for _, it := range r.Issues {
		got = append(got, it.Keyword+" "+it.InstancePath)
	}
	want := []string{"type /children/0/children/0/value", "required /children/0/children/1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_DefinitionsAndEscapes(t *testing.T) {
	v := skema.MustCompile(m{
		"definitions": m{
			"a/b": m{"type": "string"},
			"pos": m{"minimum": 0},
		},
		"properties": m{
			"s": m{"$ref": "#/definitions/a~1b"},
			"n": m{"allOf": a{m{"$ref": "#/definitions/pos"}, m{"$ref": "#/definitions/pos"}}},
		},
	}, skema.Options{})
	if !v.Validate(m{"s": "x", "n": 1}) {
		t.Fatalf("expected valid, got %v", v.Errors())
	}
	if v.Validate(m{"s": 1}) {
		t.Fatalf("expected invalid")
	}
	if got := v.Errors()[0].SchemaPath; got != "#/properties/s/$ref/type" {
		t.Fatalf("unexpected schema path %s", got)
	}
}

// TestCompile_SelfReferenceRejected rejects ref chains that never reach
// instance data.
func TestCompile_SelfReferenceRejected(t *testing.T) {
	cases := map[string]any{
		"root":  m{"$ref": "#"},
		"pair":  m{"definitions": m{"a": m{"$ref": "#/definitions/b"}, "b": m{"$ref": "#/definitions/a"}}, "$ref": "#/definitions/a"},
		"allOf": m{"definitions": m{"a": m{"allOf": a{m{"$ref": "#"}}}}, "allOf": a{m{"$ref": "#/definitions/a"}}},
		"via descended compile": m{
			"properties": m{"p": m{"$ref": "#/definitions/x"}},
			"allOf":      a{m{"$ref": "#/definitions/x"}},
			"definitions": m{
				"x": m{"allOf": a{m{"$ref": "#"}}},
			},
		},
	}
	for name, schema := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := skema.Compile(schema, skema.Options{})
			if !errors.Is(err, skema.ErrInvalidSchema) {
				t.Fatalf("expected compile error, got %v", err)
			}
		})
	}
}

func TestCompile_RefSiblings(t *testing.T) {
	v := skema.MustCompile(m{
		"definitions": m{"s": m{"type": "string"}},
		"properties": m{
			"a": m{"$ref": "#/definitions/s", "default": "x", "minLength": 5},
		},
	}, skema.Options{UseDefaults: skema.DefaultsOn})

	data := m{}
	if !v.Validate(data) {
		t.Fatalf("expected valid, got %v", v.Errors())
	}
	if data["a"] != "x" {
		t.Fatalf("expected default next to $ref to apply, got %v", data)
	}
	if w := v.Warnings(); len(w) != 1 || !strings.Contains(w[0], "keywords next to $ref are ignored") {
		t.Fatalf("unexpected warnings %q", w)
	}
}

func TestCompileJSON(t *testing.T) {
	v, err := skema.CompileJSON([]byte(`{"type":"object","properties":{"n":{"type":"integer","maximum":10}}}`), skema.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Validate(m{"n": 11}) {
		t.Fatalf("expected invalid")
	}

	v, err = skema.Compile([]byte(`{"multipleOf": 0.01}`), skema.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !v.Validate(19.99) {
		t.Fatalf("expected 19.99 to be a multiple of 0.01: %v", v.Errors())
	}

	if _, err := skema.CompileJSON([]byte(`{"type":`), skema.Options{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCompileYAML(t *testing.T) {
	src := []byte(`
type: object
properties:
  name:
    type: string
    default: anonymous
  tags:
    type: array
    items: {type: string}
    uniqueItems: true
required: [name]
`)
	v, err := skema.CompileYAML(src, skema.Options{UseDefaults: skema.DefaultsOn})
	if err != nil {
		t.Fatal(err)
	}
	data := m{"tags": a{"a", "b"}}
	if !v.Validate(data) {
		t.Fatalf("expected valid, got %v", v.Errors())
	}
	if data["name"] != "anonymous" {
		t.Fatalf("expected default from YAML schema, got %v", data)
	}

	if _, err := skema.CompileYAML([]byte("a: 1\na: 2\n"), skema.Options{}); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestCompile_LoopRequiredStrategiesAgree(t *testing.T) {
	var names a
	in := m{}
	for i := 0; i < 100; i++ {
		name := fmt.Sprintf("p%03d", i)
		names = append(names, name)
		if i%7 != 0 {
			in[name] = i
		}
	}
	schema := m{"required": names}
	loop := skema.MustCompile(schema, skema.Options{AllErrors: true, LoopRequired: 1000}).Check(in)
	set := skema.MustCompile(schema, skema.Options{AllErrors: true, LoopRequired: 1}).Check(in)
	if diff := cmp.Diff(loop, set); diff != "" {
		t.Fatalf("strategies disagree (-loop +set):\n%s", diff)
	}
	if len(loop.Issues) != 15 {
		t.Fatalf("expected 15 missing properties, got %d", len(loop.Issues))
	}
}

func TestCompile_LoggerReceivesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := skema.Compile(m{"pattern": "^a", "x-vendor": true}, skema.Options{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "pattern") {
		t.Fatalf("expected warning for pattern, got %q", out)
	}
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "x-vendor") {
		t.Fatalf("expected debug line for unknown keyword, got %q", out)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	skema.MustCompile("nope", skema.Options{})
}

// evenKeyword is a user keyword accepting even integers.
type evenKeyword struct{}

func (evenKeyword) Name() string       { return "even" }
func (evenKeyword) Phase() skema.Phase { return skema.PhaseValue }
func (evenKeyword) Compile(cc *skema.CompileContext, v any, _ map[string]any) (skema.Check, error) {
	on, ok := v.(bool)
	if !ok {
		return nil, cc.Errorf("even", "must be a boolean")
	}
	if !on {
		return nil, nil
	}
	return skema.CheckFunc(func(s *skema.State, in *any) bool {
		n, ok := (*in).(int)
		if !ok || n%2 == 0 {
			return true
		}
		s.Report("even", map[string]any{"value": n})
		return false
	}), nil
}

func TestRegistry_CustomKeyword(t *testing.T) {
	reg := skema.NewRegistry()
	reg.Register(evenKeyword{})
	v := skema.MustCompile(m{"type": "integer", "even": true}, skema.Options{Keywords: reg})

	if !v.Validate(4) {
		t.Fatalf("expected valid, got %v", v.Errors())
	}
	if v.Validate(3) {
		t.Fatalf("expected invalid")
	}
	if diff := cmp.Diff([]issueKey{{"even", "/", "#/even"}}, keys(v.Errors())); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	// type runs first
	if v.Validate("x") || v.Errors()[0].Keyword != "type" {
		t.Fatalf("expected type issue first, got %v", v.Errors())
	}

	if _, err := skema.Compile(m{"even": 1}, skema.Options{Keywords: reg}); err == nil {
		t.Fatalf("expected compile error from custom keyword")
	}
	// the default registry is untouched
	if !skema.MustCompile(m{"even": true}, skema.Options{}).Validate(3) {
		t.Fatalf("builtin registry must not know even")
	}
}

func TestParseDefaultsMode(t *testing.T) {
	cases := []struct {
		in   any
		want skema.DefaultsMode
		err  bool
	}{
		{nil, skema.DefaultsOff, false},
		{false, skema.DefaultsOff, false},
		{true, skema.DefaultsOn, false},
		{"shared", skema.DefaultsShared, false},
		{"empty", skema.DefaultsEmpty, false},
		{"TRUE", skema.DefaultsOn, false},
		{"sometimes", skema.DefaultsOff, true},
		{3, skema.DefaultsOff, true},
	}
	for _, tc := range cases {
		got, err := skema.ParseDefaultsMode(tc.in)
		if (err != nil) != tc.err || got != tc.want {
			t.Errorf("ParseDefaultsMode(%v) = %v, %v", tc.in, got, err)
		}
	}
}
