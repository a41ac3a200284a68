package skema_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/skema"
)

type issueKey struct {
	Keyword, InstancePath, SchemaPath string
}

func keys(iss skema.Issues) []issueKey {
	out := make([]issueKey, len(iss))
	for i, it := range iss {
		out[i] = issueKey{it.Keyword, it.InstancePath, it.SchemaPath}
	}
	return out
}

func userSchema() map[string]any {
	return map[string]any{
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "number"},
		},
		"required": []any{"c", "d"},
	}
}

// TestValidator_FailFastVsCollectAll compares the two error modes on the same
// instance.
func TestValidator_FailFastVsCollectAll(t *testing.T) {
	in := map[string]any{"a": 1, "b": "x"}

	ff := skema.MustCompile(userSchema(), skema.Options{})
	r := ff.Check(in)
	if r.Valid {
		t.Fatalf("expected invalid")
	}
	if diff := cmp.Diff([]issueKey{{"type", "/a", "#/properties/a/type"}}, keys(r.Issues)); diff != "" {
		t.Fatalf("fail-fast issues mismatch (-want +got):\n%s", diff)
	}

	all := skema.MustCompile(userSchema(), skema.Options{AllErrors: true})
	r = all.Check(in)
	want := []issueKey{
		{"type", "/a", "#/properties/a/type"},
		{"type", "/b", "#/properties/b/type"},
		{"required", "/", "#/required"},
		{"required", "/", "#/required"},
	}
	if diff := cmp.Diff(want, keys(r.Issues)); diff != "" {
		t.Fatalf("collect-all issues mismatch (-want +got):\n%s", diff)
	}
	if r.Issues[2].Params["missingProperty"] != "c" || r.Issues[3].Params["missingProperty"] != "d" {
		t.Fatalf("required order mismatch: %v", r.Issues)
	}
	if r.Issues[0].Message != "must be string" {
		t.Fatalf("unexpected message: %q", r.Issues[0].Message)
	}
}

func TestValidator_Deterministic(t *testing.T) {
	v := skema.MustCompile(map[string]any{
		"properties": map[string]any{
			"z": map[string]any{"type": "string"},
			"y": map[string]any{"type": "string"},
			"x": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}, skema.Options{AllErrors: true})
	in := func() map[string]any {
		return map[string]any{"x": 1, "y": 2, "z": 3, "q": 4, "p": 5}
	}
	first := v.Check(in()).Issues
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, v.Check(in()).Issues); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
	want := []issueKey{
		{"type", "/x", "#/properties/x/type"},
		{"type", "/y", "#/properties/y/type"},
		{"type", "/z", "#/properties/z/type"},
		{"additionalProperties", "/", "#/additionalProperties"},
		{"additionalProperties", "/", "#/additionalProperties"},
	}
	if diff := cmp.Diff(want, keys(first)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidator_ErrorsSideChannel(t *testing.T) {
	v := skema.MustCompile(map[string]any{"type": "string"}, skema.Options{})
	if v.Validate(1) {
		t.Fatalf("expected invalid")
	}
	if len(v.Errors()) != 1 {
		t.Fatalf("expected one issue, got %v", v.Errors())
	}
	if !v.Validate("ok") {
		t.Fatalf("expected valid")
	}
	if v.Errors() != nil {
		t.Fatalf("expected nil errors after a valid call, got %v", v.Errors())
	}
}

func TestValidator_Assert(t *testing.T) {
	v := skema.MustCompile(map[string]any{"type": "string"}, skema.Options{})
	if err := v.Assert("ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := v.Assert(true)
	iss, ok := skema.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected issues, got %v", err)
	}
	if err.Error() != "type at /: must be string" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
	if errors.Is(err, skema.ErrInvalidSchema) {
		t.Fatalf("validation issues must not match ErrInvalidSchema")
	}
}

func TestValidator_UndefinedCountsAsAbsent(t *testing.T) {
	v := skema.MustCompile(map[string]any{
		"properties":    map[string]any{"a": map[string]any{"type": "string"}},
		"required":      []any{"a"},
		"minProperties": 1,
	}, skema.Options{AllErrors: true})
	r := v.Check(map[string]any{"a": skema.Undefined})
	want := []issueKey{
		{"minProperties", "/", "#/minProperties"},
		{"required", "/", "#/required"},
	}
	if diff := cmp.Diff(want, keys(r.Issues)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValidator_ConcurrentCheck(t *testing.T) {
	v := skema.MustCompile(sixPropertySchema(), skema.Options{UseDefaults: skema.DefaultsOn, AllErrors: true})
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				data := map[string]any{"bar": i}
				r := v.Check(data)
				if !r.Valid || data["foo"] != "abc" || data["bar"] != i {
					t.Errorf("unexpected result %v for %v", r.Issues, data)
					return
				}
				data["obj"].(map[string]any)["touched"] = true
			}
		}()
	}
	wg.Wait()

	fresh := map[string]any{}
	v.Check(fresh)
	if diff := cmp.Diff(map[string]any{}, fresh["obj"]); diff != "" {
		t.Fatalf("default literal was mutated (-want +got):\n%s", diff)
	}
}

func TestValidator_Warnings(t *testing.T) {
	v := skema.MustCompile(map[string]any{"type": "string", "format": "email"}, skema.Options{})
	w := v.Warnings()
	if len(w) != 1 || w[0] != `#: keyword "format" is not supported and is ignored` {
		t.Fatalf("unexpected warnings: %q", w)
	}
	if !v.Validate("not an email") {
		t.Fatalf("format must be ignored")
	}
}
