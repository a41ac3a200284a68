package skema

import (
	"sort"
)

// Phase orders keyword checks inside one schema node. Lower phases run first;
// keywords in the same phase run in registry order.
type Phase int

const (
	// PhaseType holds type, enum and const.
	PhaseType Phase = iota
	// PhaseChildren holds properties, items and friends; these fill child
	// defaults.
	PhaseChildren
	// PhaseValue holds scalar constraints and per-element checks.
	PhaseValue
	// PhaseCount holds required and the item/property counts, which must see
	// filled defaults.
	PhaseCount
	// PhaseApplicator holds allOf, anyOf, oneOf, not and $ref.
	PhaseApplicator
	// PhaseConditional holds if/then/else.
	PhaseConditional
)

// Check is a compiled keyword bound to its schema value.
//
// Eval validates the slot v points at and reports validity. A check may
// replace *v (tuple defaults grow slices) and must report failures through
// s.Report.
type Check interface {
	Eval(s *State, v *any) bool
}

// CheckFunc adapts a function to Check.
type CheckFunc func(s *State, v *any) bool

func (f CheckFunc) Eval(s *State, v *any) bool { return f(s, v) }

// Keyword compiles one schema keyword into a Check.
type Keyword interface {
	Name() string
	Phase() Phase
	// Compile binds the keyword's value. parent is the whole schema object so
	// keywords can read siblings (additionalItems reads items, if reads
	// then/else). A nil Check with a nil error contributes nothing.
	Compile(cc *CompileContext, value any, parent map[string]any) (Check, error)
}

// Registry maps keyword names to checkers. A Registry must not be modified
// while Compile is using it.
type Registry struct {
	byName map[string]Keyword
	order  map[string]int
	seq    int
}

// NewRegistry returns a registry holding the builtin keywords.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]Keyword{}, order: map[string]int{}}
	for _, k := range builtinKeywords() {
		r.Register(k)
	}
	return r
}

// Register adds or replaces the keyword under k.Name(). Replacing keeps the
// original position in the ordering.
func (r *Registry) Register(k Keyword) {
	name := k.Name()
	if _, ok := r.order[name]; !ok {
		r.order[name] = r.seq
		r.seq++
	}
	r.byName[name] = k
}

// Lookup returns the keyword registered under name.
func (r *Registry) Lookup(name string) (Keyword, bool) {
	k, ok := r.byName[name]
	return k, ok
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	out := &Registry{byName: make(map[string]Keyword, len(r.byName)), order: make(map[string]int, len(r.order)), seq: r.seq}
	for k, v := range r.byName {
		out.byName[k] = v
	}
	for k, v := range r.order {
		out.order[k] = v
	}
	return out
}

// sortKeywords orders the keywords present in a schema object by phase, then
// registration order.
func (r *Registry) sortKeywords(ks []Keyword) {
	sort.SliceStable(ks, func(i, j int) bool {
		pi, pj := ks[i].Phase(), ks[j].Phase()
		if pi != pj {
			return pi < pj
		}
		return r.order[ks[i].Name()] < r.order[ks[j].Name()]
	})
}

// keyword is the builtin Keyword implementation.
type keyword struct {
	name    string
	phase   Phase
	compile func(cc *CompileContext, value any, parent map[string]any) (Check, error)
}

func (k keyword) Name() string { return k.name }
func (k keyword) Phase() Phase { return k.phase }
func (k keyword) Compile(cc *CompileContext, value any, parent map[string]any) (Check, error) {
	return k.compile(cc, value, parent)
}

// annotation compiles to nothing.
func annotation(name string) Keyword {
	return keyword{name: name, phase: PhaseValue, compile: func(*CompileContext, any, map[string]any) (Check, error) { return nil, nil }}
}

func builtinKeywords() []Keyword {
	return []Keyword{
		// PhaseType
		keyword{"type", PhaseType, compileType},
		keyword{"enum", PhaseType, compileEnum},
		keyword{"const", PhaseType, compileConst},
		// PhaseChildren
		keyword{"properties", PhaseChildren, compileProperties},
		keyword{"additionalProperties", PhaseChildren, compileAdditionalProperties},
		keyword{"items", PhaseChildren, compileItems},
		keyword{"additionalItems", PhaseChildren, compileAdditionalItems},
		// PhaseValue
		keyword{"multipleOf", PhaseValue, compileMultipleOf},
		keyword{"maximum", PhaseValue, compileLimit("maximum", "<=", func(c int) bool { return c <= 0 })},
		keyword{"exclusiveMaximum", PhaseValue, compileLimit("exclusiveMaximum", "<", func(c int) bool { return c < 0 })},
		keyword{"minimum", PhaseValue, compileLimit("minimum", ">=", func(c int) bool { return c >= 0 })},
		keyword{"exclusiveMinimum", PhaseValue, compileLimit("exclusiveMinimum", ">", func(c int) bool { return c > 0 })},
		keyword{"maxLength", PhaseValue, compileLength("maxLength", false)},
		keyword{"minLength", PhaseValue, compileLength("minLength", true)},
		keyword{"uniqueItems", PhaseValue, compileUniqueItems},
		keyword{"contains", PhaseValue, compileContains},
		keyword{"propertyNames", PhaseValue, compilePropertyNames},
		keyword{"dependencies", PhaseValue, compileDependencies},
		// PhaseCount
		keyword{"maxItems", PhaseCount, compileCount("maxItems", false, countItems)},
		keyword{"minItems", PhaseCount, compileCount("minItems", true, countItems)},
		keyword{"maxProperties", PhaseCount, compileCount("maxProperties", false, countProperties)},
		keyword{"minProperties", PhaseCount, compileCount("minProperties", true, countProperties)},
		keyword{"required", PhaseCount, compileRequired},
		// PhaseApplicator
		keyword{"$ref", PhaseApplicator, compileRef},
		keyword{"allOf", PhaseApplicator, compileAllOf},
		keyword{"anyOf", PhaseApplicator, compileAnyOf},
		keyword{"oneOf", PhaseApplicator, compileOneOf},
		keyword{"not", PhaseApplicator, compileNot},
		// PhaseConditional
		keyword{"if", PhaseConditional, compileIf},
		annotation("then"), // consumed by if
		annotation("else"), // consumed by if
		// annotations
		annotation("default"),
		annotation("title"),
		annotation("description"),
		annotation("$schema"),
		annotation("$id"),
		annotation("$comment"),
		annotation("definitions"),
		annotation("$defs"),
		annotation("examples"),
		annotation("readOnly"),
		annotation("writeOnly"),
	}
}
