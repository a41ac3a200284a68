package skema

import (
	"sort"
	"strings"

	"github.com/reoring/skema/internal/pointer"
	"github.com/reoring/skema/internal/value"
)

// propertiesCheck validates named properties in sorted key order. Every
// missing property is filled before any of them is validated, so a failure
// never holds back a sibling's default.
type propertiesCheck struct {
	names  []string
	tokens []string // escaped names for the schema path
	plans  []*Plan
}

func compileProperties(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	props, ok := v.(map[string]any)
	if !ok {
		return nil, cc.Errorf("properties", "must be an object, got %T", v)
	}
	c := &propertiesCheck{names: sortedKeys(props)}
	for _, name := range c.names {
		p, err := cc.Subschema(props[name], "properties", name)
		if err != nil {
			return nil, err
		}
		c.tokens = append(c.tokens, pointer.Escape(name))
		c.plans = append(c.plans, p)
	}
	return c, nil
}

func (c *propertiesCheck) subplans() (same, nested []*Plan) { return nil, c.plans }

func (c *propertiesCheck) Eval(s *State, v *any) bool {
	m, ok := (*v).(map[string]any)
	if !ok {
		return true
	}
	for i, name := range c.names {
		fillProperty(s, c.plans[i], m, name)
	}
	valid := true
	for i, name := range c.names {
		p := c.plans[i]
		val, present := m[name]
		if !present || value.IsUndefined(val) {
			continue
		}
		mk := s.EnterSchema(c.tokens[i])
		s.EnterProperty(name)
		ok := p.Eval(s, &val)
		s.Leave(mk)
		if s.FillsDefaults() {
			m[name] = val
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

// additionalPropertiesCheck covers keys not named by the sibling properties.
type additionalPropertiesCheck struct {
	known map[string]bool
	plan  *Plan // nil when additional properties are forbidden
}

func compileAdditionalProperties(cc *CompileContext, v any, parent map[string]any) (Check, error) {
	c := &additionalPropertiesCheck{known: map[string]bool{}}
	if props, ok := parent["properties"].(map[string]any); ok {
		for k := range props {
			c.known[k] = true
		}
	}
	switch t := v.(type) {
	case bool:
		if t {
			return nil, nil
		}
	case map[string]any:
		p, err := cc.Subschema(t, "additionalProperties")
		if err != nil {
			return nil, err
		}
		c.plan = p
	default:
		return nil, cc.Errorf("additionalProperties", "must be a schema, got %T", v)
	}
	return c, nil
}

func (c *additionalPropertiesCheck) subplans() (same, nested []*Plan) {
	if c.plan == nil {
		return nil, nil
	}
	return nil, []*Plan{c.plan}
}

func (c *additionalPropertiesCheck) Eval(s *State, v *any) bool {
	m, ok := (*v).(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range sortedKeys(m) {
		val := m[name]
		if c.known[name] || value.IsUndefined(val) {
			continue
		}
		if c.plan == nil {
			s.Report("additionalProperties", map[string]any{"additionalProperty": name})
			valid = false
		} else {
			mk := s.EnterProperty(name)
			ok := c.plan.Eval(s, &val)
			s.Leave(mk)
			if s.FillsDefaults() {
				m[name] = val
			}
			valid = valid && ok
		}
		if !valid && s.StopEarly() {
			return false
		}
	}
	return valid
}

// requiredCheck reports each missing name, in schema order, at the object's
// instance path. Long lists first count present names against a set and only
// fall back to the per-name walk when something is missing.
type requiredCheck struct {
	names []string
	set   map[string]bool // nil selects the per-name loop
}

func compileRequired(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, cc.Errorf("required", "must be an array of strings, got %T", v)
	}
	c := &requiredCheck{names: make([]string, 0, len(list))}
	for _, e := range list {
		name, ok := e.(string)
		if !ok {
			return nil, cc.Errorf("required", "must be an array of strings, got element %T", e)
		}
		c.names = append(c.names, name)
	}
	if len(c.names) == 0 {
		return nil, nil
	}
	if len(c.names) > cc.opts.loopRequired() {
		c.set = make(map[string]bool, len(c.names))
		for _, n := range c.names {
			c.set[n] = true
		}
	}
	return c, nil
}

func (c *requiredCheck) Eval(s *State, v *any) bool {
	m, ok := (*v).(map[string]any)
	if !ok {
		return true
	}
	if c.set != nil && c.allPresent(m) {
		return true
	}
	valid := true
	for _, name := range c.names {
		if val, ok := m[name]; ok && !value.IsUndefined(val) {
			continue
		}
		s.Report("required", map[string]any{"missingProperty": name})
		valid = false
		if s.StopEarly() {
			return false
		}
	}
	return valid
}

func (c *requiredCheck) allPresent(m map[string]any) bool {
	if len(m) < len(c.set) {
		return false
	}
	n := 0
	for k, val := range m {
		if c.set[k] && !value.IsUndefined(val) {
			n++
		}
	}
	return n == len(c.set)
}

// countProperties counts defined properties.
func countProperties(v any) (int, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return 0, false
	}
	n := 0
	for _, val := range m {
		if !value.IsUndefined(val) {
			n++
		}
	}
	return n, true
}

type propertyNamesCheck struct{ plan *Plan }

func compilePropertyNames(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	p, err := cc.Subschema(v, "propertyNames")
	if err != nil {
		return nil, err
	}
	if p == truePlan {
		return nil, nil
	}
	return &propertyNamesCheck{plan: p}, nil
}

func (c *propertyNamesCheck) subplans() (same, nested []*Plan) { return nil, []*Plan{c.plan} }

func (c *propertyNamesCheck) Eval(s *State, v *any) bool {
	m, ok := (*v).(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range sortedKeys(m) {
		if value.IsUndefined(m[name]) {
			continue
		}
		var key any = name
		s.beginComposite(true)
		ok := c.plan.Eval(s, &key)
		s.endComposite(true)
		if ok {
			continue
		}
		s.Report("propertyNames", map[string]any{"propertyName": name})
		valid = false
		if s.StopEarly() {
			return false
		}
	}
	return valid
}

// dependenciesCheck holds, per trigger property, either the names it requires
// or a schema the whole object must satisfy.
type dependenciesCheck struct {
	triggers []string
	props    map[string][]string
	schemas  map[string]*Plan
}

func compileDependencies(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	deps, ok := v.(map[string]any)
	if !ok {
		return nil, cc.Errorf("dependencies", "must be an object, got %T", v)
	}
	c := &dependenciesCheck{triggers: sortedKeys(deps), props: map[string][]string{}, schemas: map[string]*Plan{}}
	for _, name := range c.triggers {
		switch t := deps[name].(type) {
		case []any:
			names := make([]string, 0, len(t))
			for _, e := range t {
				s, ok := e.(string)
				if !ok {
					return nil, cc.Errorf("dependencies", "%q must list property names, got element %T", name, e)
				}
				names = append(names, s)
			}
			c.props[name] = names
		default:
			p, err := cc.Subschema(t, "dependencies", name)
			if err != nil {
				return nil, err
			}
			c.schemas[name] = p
		}
	}
	return c, nil
}

func (c *dependenciesCheck) subplans() (same, nested []*Plan) {
	for _, name := range c.triggers {
		if p, ok := c.schemas[name]; ok {
			same = append(same, p)
		}
	}
	return same, nil
}

func (c *dependenciesCheck) Eval(s *State, v *any) bool {
	m, ok := (*v).(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range c.triggers {
		if val, ok := m[name]; !ok || value.IsUndefined(val) {
			continue
		}
		if p, ok := c.schemas[name]; ok {
			mk := s.EnterSchema(pointer.Escape(name))
			ok := p.Eval(s, v)
			s.Leave(mk)
			if !ok {
				valid = false
				if s.StopEarly() {
					return false
				}
			}
			continue
		}
		deps := c.props[name]
		for _, dep := range deps {
			if val, ok := m[dep]; ok && !value.IsUndefined(val) {
				continue
			}
			s.Report("dependencies", map[string]any{
				"property":        name,
				"missingProperty": dep,
				"deps":            strings.Join(deps, ", "),
				"depsCount":       len(deps),
			})
			valid = false
			if s.StopEarly() {
				return false
			}
		}
	}
	return valid
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
