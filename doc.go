// Package skema compiles JSON-like schemas into reusable validators.
//
// - Compile once: a schema (bool or keyword map) becomes an immutable plan of
//   bound keyword checks, ordered so children and their defaults run before
//   counts such as required or minItems.
// - Run many times: Check and Validate evaluate the plan against an instance,
//   reporting Issues (JSON Pointer, keyword, message, params).
// - Defaults: with Options.UseDefaults, missing properties and tuple positions
//   are filled in place from schema defaults, never sharing the schema's
//   literal with the caller.
//
// Design policy:
// - Keyword checkers are pluggable through Registry; the builtin set covers
//   the draft-07 validation vocabulary except format and pattern.
// - $ref is resolved at compile time through a Resolver; recursive schemas
//   compile to a cyclic plan graph.
// - Messages come from the i18n package (en/ja).
//
// Typical usage:
//
//	v, err := skema.CompileJSON(schemaBytes, skema.Options{UseDefaults: skema.DefaultsOn, AllErrors: true})
//	data, _ := load.JSON(instanceBytes)
//	if r := v.Check(&data); !r.Valid {
//		for _, is := range r.Issues {
//			fmt.Println(is.InstancePath, is.Message)
//		}
//	}
package skema
