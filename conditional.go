package skema

// ifCheck selects then or else from a silent probe of the if schema. It
// pushes its own schema path tokens ("if", "then", "else").
type ifCheck struct {
	cond *Plan
	then *Plan // nil when absent
	els  *Plan // nil when absent
}

func compileIf(cc *CompileContext, v any, parent map[string]any) (Check, error) {
	c := &ifCheck{}
	var err error
	if c.cond, err = cc.Subschema(v, "if"); err != nil {
		return nil, err
	}
	if t, ok := parent["then"]; ok {
		if c.then, err = cc.Subschema(t, "then"); err != nil {
			return nil, err
		}
	}
	if e, ok := parent["else"]; ok {
		if c.els, err = cc.Subschema(e, "else"); err != nil {
			return nil, err
		}
	}
	if c.then == nil && c.els == nil {
		return nil, nil
	}
	return c, nil
}

func (c *ifCheck) ownsSchemaPath() {}

func (c *ifCheck) subplans() (same, nested []*Plan) {
	same = []*Plan{c.cond}
	if c.then != nil {
		same = append(same, c.then)
	}
	if c.els != nil {
		same = append(same, c.els)
	}
	return same, nil
}

func (c *ifCheck) Eval(s *State, v *any) bool {
	// The probe neither reports nor fills defaults.
	s.beginComposite(true)
	m := s.EnterSchema("if")
	matched := c.cond.Eval(s, v)
	s.Leave(m)
	s.endComposite(true)

	branch, token := c.then, "then"
	if !matched {
		branch, token = c.els, "else"
	}
	if branch == nil {
		return true
	}
	m = s.EnterSchema(token)
	ok := branch.Eval(s, v)
	s.Leave(m)
	if ok {
		return true
	}
	if !s.FailFast() {
		m = s.EnterSchema("if")
		s.Report("if", map[string]any{"failingKeyword": token})
		s.Leave(m)
	}
	return false
}
