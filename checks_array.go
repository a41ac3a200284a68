package skema

import (
	"strconv"

	"github.com/reoring/skema/internal/value"
)

// itemsCheck validates array elements. In list mode one plan applies to every
// element; in tuple mode each position has its own plan and may receive a
// default.
type itemsCheck struct {
	list  *Plan
	tuple []*Plan
}

func compileItems(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	switch t := v.(type) {
	case bool, map[string]any:
		p, err := cc.Subschema(t, "items")
		if err != nil {
			return nil, err
		}
		return &itemsCheck{list: p}, nil
	case []any:
		c := &itemsCheck{tuple: make([]*Plan, len(t))}
		for i, e := range t {
			p, err := cc.Subschema(e, "items", strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			c.tuple[i] = p
		}
		return c, nil
	}
	return nil, cc.Errorf("items", "must be a schema or an array of schemas, got %T", v)
}

func (c *itemsCheck) subplans() (same, nested []*Plan) {
	if c.list != nil {
		return nil, []*Plan{c.list}
	}
	return nil, c.tuple
}

func (c *itemsCheck) Eval(s *State, v *any) bool {
	arr, ok := (*v).([]any)
	if !ok {
		return true
	}
	if c.list != nil {
		return evalElements(s, c.list, arr, 0)
	}
	for i, p := range c.tuple {
		grown := fillIndex(s, p, arr, i)
		if len(grown) != len(arr) {
			*v = grown
		}
		arr = grown
	}
	valid := true
	for i, p := range c.tuple {
		if i >= len(arr) {
			break
		}
		if value.IsUndefined(arr[i]) {
			continue
		}
		m := s.EnterSchema(strconv.Itoa(i))
		s.EnterIndex(i)
		ok := p.Eval(s, &arr[i])
		s.Leave(m)
		if !ok {
			valid = false
			if s.StopEarly() {
				return false
			}
		}
	}
	return valid
}

// evalElements runs p on every defined element of arr from index from on.
func evalElements(s *State, p *Plan, arr []any, from int) bool {
	valid := true
	for i := from; i < len(arr); i++ {
		if value.IsUndefined(arr[i]) {
			continue
		}
		m := s.EnterIndex(i)
		ok := p.Eval(s, &arr[i])
		s.Leave(m)
		if !ok {
			valid = false
			if s.StopEarly() {
				return false
			}
		}
	}
	return valid
}

// additionalItemsCheck governs elements past a tuple. It has no effect unless
// the sibling items is an array.
type additionalItemsCheck struct {
	n    int   // tuple length
	plan *Plan // nil when additional items are forbidden
}

func compileAdditionalItems(cc *CompileContext, v any, parent map[string]any) (Check, error) {
	tuple, ok := parent["items"].([]any)
	switch t := v.(type) {
	case bool:
		if !ok || t {
			return nil, nil
		}
		return &additionalItemsCheck{n: len(tuple)}, nil
	case map[string]any:
		if !ok {
			return nil, nil
		}
		p, err := cc.Subschema(t, "additionalItems")
		if err != nil {
			return nil, err
		}
		return &additionalItemsCheck{n: len(tuple), plan: p}, nil
	}
	return nil, cc.Errorf("additionalItems", "must be a schema, got %T", v)
}

func (c *additionalItemsCheck) subplans() (same, nested []*Plan) {
	if c.plan == nil {
		return nil, nil
	}
	return nil, []*Plan{c.plan}
}

func (c *additionalItemsCheck) Eval(s *State, v *any) bool {
	arr, ok := (*v).([]any)
	if !ok || len(arr) <= c.n {
		return true
	}
	if c.plan == nil {
		s.Report("additionalItems", map[string]any{"limit": c.n})
		return false
	}
	return evalElements(s, c.plan, arr, c.n)
}

func compileUniqueItems(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	on, ok := v.(bool)
	if !ok {
		return nil, cc.Errorf("uniqueItems", "must be a boolean, got %T", v)
	}
	if !on {
		return nil, nil
	}
	return CheckFunc(func(s *State, v *any) bool {
		arr, ok := (*v).([]any)
		if !ok {
			return true
		}
		for i := 1; i < len(arr); i++ {
			if value.IsUndefined(arr[i]) {
				continue
			}
			for j := 0; j < i; j++ {
				if value.Equal(arr[i], arr[j]) {
					s.Report("uniqueItems", map[string]any{"i": i, "j": j})
					return false
				}
			}
		}
		return true
	}), nil
}

type containsCheck struct{ plan *Plan }

func compileContains(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	p, err := cc.Subschema(v, "contains")
	if err != nil {
		return nil, err
	}
	return &containsCheck{plan: p}, nil
}

func (c *containsCheck) subplans() (same, nested []*Plan) { return nil, []*Plan{c.plan} }

func (c *containsCheck) Eval(s *State, v *any) bool {
	arr, ok := (*v).([]any)
	if !ok {
		return true
	}
	for i := range arr {
		if value.IsUndefined(arr[i]) {
			continue
		}
		s.beginComposite(true)
		ok := c.plan.Eval(s, &arr[i])
		s.endComposite(true)
		if ok {
			return true
		}
	}
	s.Report("contains", nil)
	return false
}

// compileCount builds the min/max item and property counts.
func compileCount(name string, min bool, count func(any) (int, bool)) func(*CompileContext, any, map[string]any) (Check, error) {
	return func(cc *CompileContext, v any, _ map[string]any) (Check, error) {
		limit, ok := value.AsLimit(v)
		if !ok {
			return nil, cc.Errorf(name, "must be a non-negative integer, got %v", v)
		}
		return CheckFunc(func(s *State, in *any) bool {
			n, ok := count(*in)
			if !ok || (min && n >= limit) || (!min && n <= limit) {
				return true
			}
			s.Report(name, map[string]any{"limit": limit})
			return false
		}), nil
	}
}

// countItems counts array slots, holes included.
func countItems(v any) (int, bool) {
	arr, ok := v.([]any)
	return len(arr), ok
}
