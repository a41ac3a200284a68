package skema

import (
	"strconv"

	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/internal/pointer"
)

// State is the per-call execution context threaded through a plan. It is
// created fresh for every validation call and never shared between calls.
type State struct {
	failFast bool
	defaults bool
	// fixedRoot is set when the root is a bare slice the caller cannot see
	// grow; tuple defaults may then only fill positions within its length.
	fixedRoot bool

	// silent > 0 suppresses issue records (if probes, fail-fast composites).
	silent int
	// composite > 0 suppresses default application (if, anyOf, oneOf, not).
	composite int

	inst   []string // escaped instance path tokens
	schema []string // escaped schema path tokens

	issues  Issues
	applied []string
}

func newState(opts Options) *State {
	return &State{
		failFast: !opts.AllErrors,
		defaults: opts.UseDefaults != DefaultsOff,
		inst:     make([]string, 0, 8),
		schema:   make([]string, 0, 16),
	}
}

// Mark records path depths so Leave can restore them.
type Mark struct{ inst, schema int }

func (s *State) mark() Mark { return Mark{inst: len(s.inst), schema: len(s.schema)} }

// EnterSchema extends the schema path with escaped tokens.
func (s *State) EnterSchema(tokens ...string) Mark {
	m := s.mark()
	s.schema = append(s.schema, tokens...)
	return m
}

// EnterProperty extends the instance path with an object key.
func (s *State) EnterProperty(name string) Mark {
	m := s.mark()
	s.inst = append(s.inst, pointer.Escape(name))
	return m
}

// EnterIndex extends the instance path with an array index.
func (s *State) EnterIndex(i int) Mark {
	m := s.mark()
	s.inst = append(s.inst, strconv.Itoa(i))
	return m
}

// Leave restores both paths to the depths recorded in m.
func (s *State) Leave(m Mark) {
	s.inst = s.inst[:m.inst]
	s.schema = s.schema[:m.schema]
}

// StopEarly reports whether the current evaluation should stop at the first
// failure: fail-fast mode, or a silent probe that only needs a boolean.
func (s *State) StopEarly() bool { return s.failFast || s.silent > 0 }

// FailFast reports whether the call runs in fail-fast mode.
func (s *State) FailFast() bool { return s.failFast }

// growsSlot reports whether a slice at the current instance path may be
// extended by tuple defaults.
func (s *State) growsSlot() bool { return !s.fixedRoot || len(s.inst) > 0 }

// FillsDefaults reports whether missing slots may be filled right now.
func (s *State) FillsDefaults() bool { return s.defaults && s.composite == 0 }

// Report records a failure of keyword at the current paths. It is a no-op
// inside silent probes.
func (s *State) Report(keyword string, params map[string]any) {
	if s.silent > 0 {
		return
	}
	if params == nil {
		params = map[string]any{}
	}
	s.issues = append(s.issues, Issue{
		Keyword:      keyword,
		InstancePath: pointer.Join(s.inst),
		SchemaPath:   pointer.Fragment(s.schema),
		Message:      i18n.T(keyword, params),
		Params:       params,
	})
}

// beginComposite enters a scope where defaults are not applied. When silent
// is set, issues are suppressed too.
func (s *State) beginComposite(silent bool) {
	s.composite++
	if silent {
		s.silent++
	}
}

func (s *State) endComposite(silent bool) {
	s.composite--
	if silent {
		s.silent--
	}
}

// issueMark and dropIssues discard provisional records of composite branches.
func (s *State) issueMark() int { return len(s.issues) }

func (s *State) dropIssues(n int) {
	if n < len(s.issues) {
		s.issues = s.issues[:n]
	}
}

// recordApplied notes that the slot at the current instance path plus token
// was filled from a default.
func (s *State) recordApplied(token string) {
	p := make([]string, len(s.inst), len(s.inst)+1)
	copy(p, s.inst)
	s.applied = append(s.applied, pointer.Join(append(p, token)))
}
