package skema_test

import (
	"fmt"
	"testing"

	"github.com/reoring/skema"
	"github.com/reoring/skema/load"
)

// ---- Helpers ----

func smallUserSchema(tb testing.TB, opts skema.Options) *skema.Validator {
	tb.Helper()
	v, err := skema.CompileJSON([]byte(`{
		"type": "object",
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string", "default": "anonymous"},
			"age": {"type": "integer", "minimum": 0}
		},
		"required": ["id", "name"],
		"additionalProperties": false
	}`), opts)
	if err != nil {
		tb.Fatalf("compile failed: %v", err)
	}
	return v
}

func requiredSchema(n int) map[string]any {
	names := make([]any, n)
	for i := range names {
		names[i] = fmt.Sprintf("k%d", i)
	}
	return map[string]any{"required": names}
}

func Benchmark_Check_Object_Small(b *testing.B) {
	v := smallUserSchema(b, skema.Options{})
	in := map[string]any{"id": "u_1", "name": "alice", "age": 30}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !v.Check(in).Valid {
			b.Fatal("unexpected invalid")
		}
	}
}

func Benchmark_Check_Object_Small_Defaults(b *testing.B) {
	v := smallUserSchema(b, skema.Options{UseDefaults: skema.DefaultsOn})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !v.Check(map[string]any{"id": "u_1"}).Valid {
			b.Fatal("unexpected invalid")
		}
	}
}

func Benchmark_Check_Object_Small_CollectAll_Invalid(b *testing.B) {
	v := smallUserSchema(b, skema.Options{AllErrors: true})
	in := map[string]any{"id": "", "age": -1, "zzz": true}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if v.Check(in).Valid {
			b.Fatal("unexpected valid")
		}
	}
}

func Benchmark_Check_Required_Large(b *testing.B) {
	const n = 200
	in := map[string]any{}
	for i := 0; i < n; i++ {
		in[fmt.Sprintf("k%d", i)] = i
	}
	for _, loop := range []int{n + 1, 1} {
		v := skema.MustCompile(requiredSchema(n), skema.Options{LoopRequired: loop})
		b.Run(fmt.Sprintf("loopRequired=%d", loop), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if !v.Check(in).Valid {
					b.Fatal("unexpected invalid")
				}
			}
		})
	}
}

func Benchmark_LoadAndCheck_JSONBytes(b *testing.B) {
	v := smallUserSchema(b, skema.Options{})
	data := []byte(`{"id":"u_1","name":"alice","age":30}`)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in, err := load.JSON(data)
		if err != nil {
			b.Fatal(err)
		}
		if !v.Check(in).Valid {
			b.Fatal("unexpected invalid")
		}
	}
}
