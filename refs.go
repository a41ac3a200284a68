package skema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/skema/internal/pointer"
)

// Resolver maps a $ref value to the schema it names.
type Resolver interface {
	Resolve(ref string) (any, error)
}

// LocalResolver resolves fragment refs ("#", "#/definitions/x", any JSON
// Pointer) against a single root document. Remote refs are rejected.
type LocalResolver struct {
	root any
}

// NewLocalResolver returns a resolver over root.
func NewLocalResolver(root any) *LocalResolver { return &LocalResolver{root: root} }

func (r *LocalResolver) Resolve(ref string) (any, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("$ref %q not supported (local refs only)", ref)
	}
	tokens, ok := pointer.Split(ref)
	if !ok {
		return nil, fmt.Errorf("$ref %q is not a JSON Pointer", ref)
	}
	cur := r.root
	for i, tok := range tokens {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[tok]
			if !ok {
				return nil, fmt.Errorf("$ref %q: no member %q at %s", ref, tok, pointer.Fragment(escapeAll(tokens[:i])))
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("$ref %q: index %q out of range at %s", ref, tok, pointer.Fragment(escapeAll(tokens[:i])))
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("$ref %q: cannot descend into %T", ref, cur)
		}
	}
	return cur, nil
}

func escapeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = pointer.Escape(t)
	}
	return out
}
