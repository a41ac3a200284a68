package skema

import (
	"strconv"
)

func compileSchemaList(cc *CompileContext, name string, v any) ([]*Plan, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, cc.Errorf(name, "must be an array of schemas, got %T", v)
	}
	if len(list) == 0 {
		return nil, cc.Errorf(name, "must not be empty")
	}
	plans := make([]*Plan, len(list))
	for i, e := range list {
		p, err := cc.Subschema(e, name, strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		plans[i] = p
	}
	return plans, nil
}

// evalBranch runs the i-th branch of a schema list against v.
func evalBranch(s *State, p *Plan, i int, v *any) bool {
	m := s.EnterSchema(strconv.Itoa(i))
	ok := p.Eval(s, v)
	s.Leave(m)
	return ok
}

type allOfCheck struct{ plans []*Plan }

func compileAllOf(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	plans, err := compileSchemaList(cc, "allOf", v)
	if err != nil {
		return nil, err
	}
	return &allOfCheck{plans: plans}, nil
}

func (c *allOfCheck) subplans() (same, nested []*Plan) { return c.plans, nil }

// Eval runs every branch in normal mode, so branches fill defaults.
func (c *allOfCheck) Eval(s *State, v *any) bool {
	valid := true
	for i, p := range c.plans {
		if !evalBranch(s, p, i, v) {
			valid = false
			if s.StopEarly() {
				return false
			}
		}
	}
	return valid
}

type anyOfCheck struct{ plans []*Plan }

func compileAnyOf(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	plans, err := compileSchemaList(cc, "anyOf", v)
	if err != nil {
		return nil, err
	}
	return &anyOfCheck{plans: plans}, nil
}

func (c *anyOfCheck) subplans() (same, nested []*Plan) { return c.plans, nil }

func (c *anyOfCheck) Eval(s *State, v *any) bool {
	silent := s.FailFast()
	mark := s.issueMark()
	s.beginComposite(silent)
	for i, p := range c.plans {
		if evalBranch(s, p, i, v) {
			s.endComposite(silent)
			s.dropIssues(mark)
			return true
		}
	}
	s.endComposite(silent)
	s.Report("anyOf", nil)
	return false
}

type oneOfCheck struct{ plans []*Plan }

func compileOneOf(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	plans, err := compileSchemaList(cc, "oneOf", v)
	if err != nil {
		return nil, err
	}
	return &oneOfCheck{plans: plans}, nil
}

func (c *oneOfCheck) subplans() (same, nested []*Plan) { return c.plans, nil }

func (c *oneOfCheck) Eval(s *State, v *any) bool {
	silent := s.FailFast()
	mark := s.issueMark()
	var passing []int
	s.beginComposite(silent)
	for i, p := range c.plans {
		if evalBranch(s, p, i, v) {
			passing = append(passing, i)
			if len(passing) > 1 {
				break
			}
		}
	}
	s.endComposite(silent)
	switch len(passing) {
	case 1:
		s.dropIssues(mark)
		return true
	case 0:
		s.Report("oneOf", map[string]any{"passingSchemas": nil})
	default:
		s.dropIssues(mark)
		s.Report("oneOf", map[string]any{"passingSchemas": passing})
	}
	return false
}

type notCheck struct{ plan *Plan }

func compileNot(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	p, err := cc.Subschema(v, "not")
	if err != nil {
		return nil, err
	}
	return &notCheck{plan: p}, nil
}

func (c *notCheck) subplans() (same, nested []*Plan) { return []*Plan{c.plan}, nil }

func (c *notCheck) Eval(s *State, v *any) bool {
	s.beginComposite(true)
	ok := c.plan.Eval(s, v)
	s.endComposite(true)
	if !ok {
		return true
	}
	s.Report("not", nil)
	return false
}

// refCheck evaluates the plan a $ref resolved to. The plan may be the one
// that contains this check.
type refCheck struct {
	ref  string
	plan *Plan
}

func compileRef(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	ref, ok := v.(string)
	if !ok {
		return nil, cc.Errorf("$ref", "must be a string, got %T", v)
	}
	p, err := cc.resolveRef(ref)
	if err != nil {
		return nil, err
	}
	return &refCheck{ref: ref, plan: p}, nil
}

func (c *refCheck) subplans() (same, nested []*Plan) { return []*Plan{c.plan}, nil }

func (c *refCheck) Eval(s *State, v *any) bool { return c.plan.Eval(s, v) }
