// Package load decodes schema documents and instances from JSON and YAML into
// the JSON-like values consumed by skema.Compile and the validators it
// produces.
package load
