package skema

import (
	"strings"

	"github.com/reoring/skema/internal/value"
)

var knownTypes = map[string]bool{
	value.TypeNull: true, value.TypeBoolean: true, value.TypeNumber: true, value.TypeInteger: true,
	value.TypeString: true, value.TypeArray: true, value.TypeObject: true,
}

func compileType(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	var names []string
	switch t := v.(type) {
	case string:
		names = []string{t}
	case []any:
		if len(t) == 0 {
			return nil, cc.Errorf("type", "must not be an empty array")
		}
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, cc.Errorf("type", "entries must be strings, got %T", e)
			}
			names = append(names, s)
		}
	default:
		return nil, cc.Errorf("type", "must be a string or an array of strings, got %T", v)
	}
	for _, n := range names {
		if !knownTypes[n] {
			return nil, cc.Errorf("type", "unknown type %q", n)
		}
	}
	return typeCheck{names: names, want: strings.Join(names, ",")}, nil
}

type typeCheck struct {
	names []string
	want  string // param value, e.g. "string,null"
}

func (c typeCheck) Eval(s *State, v *any) bool {
	got := value.TypeOf(*v)
	for _, n := range c.names {
		if n == got {
			return true
		}
		// integer is a number without a fractional part
		if n == value.TypeInteger && got == value.TypeNumber && value.IsInteger(*v) {
			return true
		}
	}
	s.Report("type", map[string]any{"type": c.want})
	return false
}

func compileEnum(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, cc.Errorf("enum", "must be an array, got %T", v)
	}
	allowed := value.DeepCopy(list).([]any)
	return CheckFunc(func(s *State, v *any) bool {
		for _, a := range allowed {
			if value.Equal(*v, a) {
				return true
			}
		}
		s.Report("enum", map[string]any{"allowedValues": value.DeepCopy(allowed)})
		return false
	}), nil
}

func compileConst(_ *CompileContext, v any, _ map[string]any) (Check, error) {
	want := value.DeepCopy(v)
	return CheckFunc(func(s *State, v *any) bool {
		if value.Equal(*v, want) {
			return true
		}
		s.Report("const", map[string]any{"allowedValue": value.DeepCopy(want)})
		return false
	}), nil
}
