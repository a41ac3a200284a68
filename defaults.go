package skema

import (
	"strconv"

	"github.com/reoring/skema/internal/pointer"
	"github.com/reoring/skema/internal/value"
)

// defaultValue is the default descriptor attached to a plan whose schema
// carries "default".
type defaultValue struct {
	literal   any // private deep copy of the schema literal
	container bool
	mode      DefaultsMode
}

func newDefaultValue(literal any, mode DefaultsMode) *defaultValue {
	return &defaultValue{
		literal:   value.DeepCopy(literal),
		container: value.IsContainer(literal),
		mode:      mode,
	}
}

// materialize returns the value handed to the instance. Containers are deep
// copied at every assignment in every mode, so a caller mutating a filled
// value can never reach the literal held by the plan.
func (d *defaultValue) materialize() any {
	if d.container {
		return value.DeepCopy(d.literal)
	}
	return d.literal
}

// missing applies the mode's missing-ness predicate to a slot.
func (d *defaultValue) missing(v any, present bool) bool {
	return value.Missing(v, present, d.mode == DefaultsEmpty)
}

// fillProperty writes child's default into m[name] when the slot is missing.
func fillProperty(s *State, child *Plan, m map[string]any, name string) {
	d := child.def
	if d == nil || m == nil || !s.FillsDefaults() {
		return
	}
	if val, present := m[name]; !d.missing(val, present) {
		return
	}
	m[name] = d.materialize()
	s.recordApplied(pointer.Escape(name))
}

// fillIndex writes child's default at position i when it is absent or
// undefined. Intermediate absent positions become Undefined holes. The
// returned slice may differ from arr when it grew. A root slice passed by
// value is never extended.
func fillIndex(s *State, child *Plan, arr []any, i int) []any {
	present := i < len(arr)
	var val any
	if present {
		val = arr[i]
	}
	d := child.def
	if d == nil || !s.FillsDefaults() || !d.missing(val, present) || (!present && !s.growsSlot()) {
		return arr
	}
	for len(arr) < i {
		arr = append(arr, value.Undefined)
	}
	if i < len(arr) {
		arr[i] = d.materialize()
	} else {
		arr = append(arr, d.materialize())
	}
	s.recordApplied(strconv.Itoa(i))
	return arr
}
