// Package value holds helpers over JSON-like Go values: map[string]any,
// []any, string, bool, nil, Go numerics and json.Number. It is internal and
// not part of the public API.
package value

import (
	"encoding/json"
)

// Undef is the type of the Undefined sentinel.
type Undef struct{}

// Undefined marks a slot that is present but carries no value. Keywords treat
// it exactly like an absent key or index.
var Undefined any = Undef{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(Undef)
	return ok
}

// JSON type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// TypeOf returns the JSON type name of v ("number" for every numeric kind).
// It returns "" for Undefined and for Go values with no JSON counterpart.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	}
	if IsNumber(v) {
		return TypeNumber
	}
	return ""
}

// IsNumber reports whether v is a Go numeric value or a json.Number.
func IsNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	}
	return false
}

// Missing reports whether a slot counts as missing for default application.
// present is false when the key or index does not exist at all. When empty
// is set, "" and null also count as missing.
func Missing(v any, present, empty bool) bool {
	if !present || IsUndefined(v) {
		return true
	}
	if !empty {
		return false
	}
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
