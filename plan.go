package skema

import (
	"errors"

	"github.com/reoring/skema/internal/pointer"
)

type planKind uint8

const (
	planKeywords planKind = iota
	planTrue
	planFalse
)

// Plan is a compiled schema node: an ordered list of bound keyword checks and
// an optional default. Plans are immutable once Compile returns and may be
// evaluated concurrently.
type Plan struct {
	kind   planKind
	checks []boundCheck
	def    *defaultValue
}

type boundCheck struct {
	keyword string
	token   string // escaped keyword pushed on the schema path; "" when the check owns its paths
	check   Check
}

// pathOwner marks checks that manage their own schema path tokens.
type pathOwner interface{ ownsSchemaPath() }

var (
	truePlan  = &Plan{kind: planTrue}
	falsePlan = &Plan{kind: planFalse}
)

func (p *Plan) bind(keyword string, c Check) {
	bc := boundCheck{keyword: keyword, token: pointer.Escape(keyword), check: c}
	if _, ok := c.(pathOwner); ok {
		bc.token = ""
	}
	p.checks = append(p.checks, bc)
}

// Eval runs the plan against the slot v points at.
func (p *Plan) Eval(s *State, v *any) bool {
	switch p.kind {
	case planTrue:
		return true
	case planFalse:
		s.Report("false schema", nil)
		return false
	}
	valid := true
	for i := range p.checks {
		bc := &p.checks[i]
		var ok bool
		if bc.token == "" {
			ok = bc.check.Eval(s, v)
		} else {
			m := s.EnterSchema(bc.token)
			ok = bc.check.Eval(s, v)
			s.Leave(m)
		}
		if !ok {
			valid = false
			if s.StopEarly() {
				return false
			}
		}
	}
	return valid
}

// Default returns a fresh copy of the node's default and whether it has one.
// Nodes carry defaults only when compiled with UseDefaults enabled.
func (p *Plan) Default() (any, bool) {
	if p.def == nil {
		return nil, false
	}
	return p.def.materialize(), true
}

// linked is implemented by checks that hold sub-plans. same are evaluated
// against the instance the check sees; nested against its children.
type linked interface {
	subplans() (same, nested []*Plan)
}

var errSelfReference = errors.New("schema references itself without descending into the instance")

// checkCycles rejects plan graphs where evaluation could loop on one
// instance, e.g. {"$ref": "#"} or two definitions that only allOf each other.
// Cycles through properties or items are fine: every lap consumes a level of
// the instance.
func checkCycles(root *Plan) error {
	var all []*Plan
	seen := map[*Plan]bool{}
	var collect func(p *Plan)
	collect = func(p *Plan) {
		if p == nil || seen[p] {
			return
		}
		seen[p] = true
		all = append(all, p)
		for _, bc := range p.checks {
			if l, ok := bc.check.(linked); ok {
				same, nested := l.subplans()
				for _, q := range same {
					collect(q)
				}
				for _, q := range nested {
					collect(q)
				}
			}
		}
	}
	collect(root)

	const (
		white = iota
		grey
		black
	)
	color := make(map[*Plan]int, len(all))
	var visit func(p *Plan) bool
	visit = func(p *Plan) bool {
		switch color[p] {
		case grey:
			return true
		case black:
			return false
		}
		color[p] = grey
		for _, bc := range p.checks {
			l, ok := bc.check.(linked)
			if !ok {
				continue
			}
			same, _ := l.subplans()
			for _, q := range same {
				if q != nil && visit(q) {
					return true
				}
			}
		}
		color[p] = black
		return false
	}
	for _, p := range all {
		if visit(p) {
			return &CompileError{SchemaPath: "#", Keyword: "$ref", Err: errSelfReference}
		}
	}
	return nil
}
