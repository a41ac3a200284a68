package skema

import (
	"slices"
	"sync"

	"github.com/reoring/skema/internal/value"
)

// Undefined marks a slot that is present but holds no value, like a
// JavaScript undefined. Keywords treat it as absent and defaults fill it.
var Undefined = value.Undefined

// Validator is a compiled schema. It is safe for concurrent use; only the
// instances passed in are mutated (when defaults are enabled).
type Validator struct {
	root     *Plan
	opts     Options
	warnings []string

	mu   sync.Mutex
	last Issues
}

// Result is the outcome of one validation call.
type Result struct {
	Valid  bool
	Issues Issues // nil when Valid
	// DefaultApplied lists the instance pointers filled from defaults, in fill
	// order. Fills persist even when the instance is invalid.
	DefaultApplied []string
}

// Check validates instance and returns the full outcome. Pass *any or
// *[]any to let root-level tuple defaults grow the root slice; a bare []any
// root is only filled within its current length. A nil map behind
// *map[string]any is allocated when defaults fill it.
func (v *Validator) Check(instance any) Result {
	s := newState(v.opts)
	var ok bool
	switch p := instance.(type) {
	case *any:
		ok = v.root.Eval(s, p)
	case *[]any:
		slot := any(*p)
		ok = v.root.Eval(s, &slot)
		if grown, isArr := slot.([]any); isArr {
			*p = grown
		}
	case *map[string]any:
		m := *p
		if m == nil && s.defaults {
			m = map[string]any{}
		}
		slot := any(m)
		ok = v.root.Eval(s, &slot)
		if *p == nil && len(s.applied) > 0 {
			*p = m
		}
	default:
		if _, isArr := instance.([]any); isArr {
			s.fixedRoot = true
		}
		ok = v.root.Eval(s, &instance)
	}
	r := Result{Valid: ok, DefaultApplied: s.applied}
	if !ok {
		r.Issues = s.issues
	}
	return r
}

// Validate reports whether instance is valid. The issues of the call are
// available from Errors until the next call.
func (v *Validator) Validate(instance any) bool {
	r := v.Check(instance)
	v.mu.Lock()
	v.last = r.Issues
	v.mu.Unlock()
	return r.Valid
}

// Errors returns the issues of the most recent Validate call, or nil when it
// passed.
func (v *Validator) Errors() Issues {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// Assert returns nil when instance is valid and the Issues otherwise.
func (v *Validator) Assert(instance any) error {
	r := v.Check(instance)
	if r.Valid {
		return nil
	}
	return r.Issues
}

// Warnings returns the non-fatal compile diagnostics, such as ignored
// unsupported keywords.
func (v *Validator) Warnings() []string { return slices.Clone(v.warnings) }

// Root returns the compiled root plan.
func (v *Validator) Root() *Plan { return v.root }
