package skema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue is a single validation error record.
type Issue struct {
	Keyword      string // Keyword that failed (for example: required, type, false schema).
	InstancePath string // JSON Pointer into the instance (for example: /items/2); "/" is the root.
	SchemaPath   string // Fragment pointer into the schema (for example: #/items/2/type).
	Message      string
	// Params carries keyword-specific data (e.g., {"limit": 3} or
	// {"missingProperty": "foo"}) for i18n and programmatic handling.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type at /items/2: must be boolean
		fmt.Fprintf(b, "%s at %s: %s", it.Keyword, it.InstancePath, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrInvalidSchema is matched by every *CompileError via errors.Is.
var ErrInvalidSchema = errors.New("skema: invalid schema")

// CompileError reports a malformed schema. No validator is produced when
// Compile returns one.
type CompileError struct {
	SchemaPath string // Fragment pointer to the offending node or keyword.
	Keyword    string // Offending keyword; empty when the node itself is malformed.
	Err        error
}

func (e *CompileError) Error() string {
	if e.Keyword == "" {
		return fmt.Sprintf("skema: compile %s: %v", e.SchemaPath, e.Err)
	}
	return fmt.Sprintf("skema: compile %s (%s): %v", e.SchemaPath, e.Keyword, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidSchema) hold for every CompileError.
func (e *CompileError) Is(target error) bool { return target == ErrInvalidSchema }
