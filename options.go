package skema

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultsMode selects whether and when schema defaults are written into the
// instance.
type DefaultsMode int

const (
	DefaultsOff    DefaultsMode = iota // Never fill.
	DefaultsOn                         // Fill absent or undefined slots.
	DefaultsShared                     // Like DefaultsOn; filled values are still independent copies.
	DefaultsEmpty                      // Also fill slots holding "" or null.
)

func (m DefaultsMode) String() string {
	switch m {
	case DefaultsOff:
		return "false"
	case DefaultsOn:
		return "true"
	case DefaultsShared:
		return "shared"
	case DefaultsEmpty:
		return "empty"
	default:
		return fmt.Sprintf("DefaultsMode(%d)", int(m))
	}
}

// ParseDefaultsMode accepts the option spellings false, true, "shared" and
// "empty" (also as strings "false"/"true").
func ParseDefaultsMode(v any) (DefaultsMode, error) {
	switch t := v.(type) {
	case nil:
		return DefaultsOff, nil
	case bool:
		if t {
			return DefaultsOn, nil
		}
		return DefaultsOff, nil
	case DefaultsMode:
		if t < DefaultsOff || t > DefaultsEmpty {
			return DefaultsOff, fmt.Errorf("skema: invalid useDefaults mode %d", int(t))
		}
		return t, nil
	case string:
		switch strings.ToLower(t) {
		case "", "false":
			return DefaultsOff, nil
		case "true":
			return DefaultsOn, nil
		case "shared":
			return DefaultsShared, nil
		case "empty":
			return DefaultsEmpty, nil
		}
	}
	return DefaultsOff, fmt.Errorf("skema: invalid useDefaults value %v", v)
}

// DefaultLoopRequired is the required-list length above which the set based
// strategy is used when Options.LoopRequired is zero.
const DefaultLoopRequired = 64

// Options configures compilation. The zero value compiles a fail-fast
// validator without defaults.
type Options struct {
	// UseDefaults fills missing slots from schema defaults during validation.
	UseDefaults DefaultsMode
	// AllErrors collects every issue instead of stopping at the first one.
	AllErrors bool
	// LoopRequired picks the strategy for large required lists. It has no
	// observable effect besides performance. Zero means DefaultLoopRequired.
	LoopRequired int
	// Keywords is the keyword checker set. nil means NewRegistry().
	Keywords *Registry
	// Resolver resolves $ref values. nil means a LocalResolver over the root
	// schema.
	Resolver Resolver
	// Logger receives compile diagnostics. nil discards them.
	Logger *slog.Logger
}

func (o Options) loopRequired() int {
	if o.LoopRequired <= 0 {
		return DefaultLoopRequired
	}
	return o.LoopRequired
}
