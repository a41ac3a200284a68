package skema

import (
	"unicode/utf8"

	"github.com/reoring/skema/internal/value"
)

func compileMultipleOf(cc *CompileContext, v any, _ map[string]any) (Check, error) {
	d, ok := value.Decimal(v)
	if !ok || d.Sign() <= 0 {
		return nil, cc.Errorf("multipleOf", "must be a positive number, got %v", v)
	}
	return CheckFunc(func(s *State, in *any) bool {
		if !value.IsNumber(*in) || value.MultipleOf(*in, d) {
			return true
		}
		s.Report("multipleOf", map[string]any{"multipleOf": v})
		return false
	}), nil
}

// compileLimit builds the numeric bound keywords. pass receives the result of
// comparing the instance with the limit.
func compileLimit(name, comparison string, pass func(int) bool) func(*CompileContext, any, map[string]any) (Check, error) {
	return func(cc *CompileContext, v any, _ map[string]any) (Check, error) {
		if _, ok := value.Decimal(v); !ok {
			return nil, cc.Errorf(name, "must be a number, got %T", v)
		}
		return CheckFunc(func(s *State, in *any) bool {
			if !value.IsNumber(*in) {
				return true
			}
			c, ok := value.Compare(*in, v)
			if !ok || pass(c) {
				return true
			}
			s.Report(name, map[string]any{"comparison": comparison, "limit": v})
			return false
		}), nil
	}
}

// compileLength builds maxLength and minLength. Lengths count runes.
func compileLength(name string, min bool) func(*CompileContext, any, map[string]any) (Check, error) {
	return func(cc *CompileContext, v any, _ map[string]any) (Check, error) {
		limit, ok := value.AsLimit(v)
		if !ok {
			return nil, cc.Errorf(name, "must be a non-negative integer, got %v", v)
		}
		return CheckFunc(func(s *State, in *any) bool {
			str, ok := (*in).(string)
			if !ok {
				return true
			}
			n := utf8.RuneCountInString(str)
			if (min && n >= limit) || (!min && n <= limit) {
				return true
			}
			s.Report(name, map[string]any{"limit": limit})
			return false
		}), nil
	}
}
