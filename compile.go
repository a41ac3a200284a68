package skema

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/reoring/skema/internal/pointer"
	"github.com/reoring/skema/load"
)

var builtinRegistry = NewRegistry()

// unsupported keywords are accepted and ignored with a warning.
var unsupported = map[string]bool{
	"format":            true,
	"pattern":           true,
	"patternProperties": true,
	"contentEncoding":   true,
	"contentMediaType":  true,
}

// Compile turns a schema (bool, map[string]any, or raw JSON bytes) into a
// reusable Validator. Malformed schemas yield a *CompileError and no
// validator.
func Compile(schema any, opts Options) (*Validator, error) {
	if b, ok := schema.([]byte); ok {
		return CompileJSON(b, opts)
	}
	mode, err := ParseDefaultsMode(opts.UseDefaults)
	if err != nil {
		return nil, &CompileError{SchemaPath: "#", Err: err}
	}
	opts.UseDefaults = mode

	cc := newCompileContext(schema, opts)
	root := &Plan{}
	cc.refs["#"] = root
	if err := cc.buildRef(nil, schema, root); err != nil {
		return nil, err
	}
	if err := checkCycles(root); err != nil {
		return nil, err
	}
	return &Validator{root: root, opts: opts, warnings: cc.warnings}, nil
}

// CompileJSON decodes a JSON schema document and compiles it.
func CompileJSON(data []byte, opts Options) (*Validator, error) {
	schema, err := load.JSON(data)
	if err != nil {
		return nil, fmt.Errorf("skema: %w", err)
	}
	return Compile(schema, opts)
}

// CompileYAML decodes the first document of a YAML stream and compiles it.
func CompileYAML(data []byte, opts Options) (*Validator, error) {
	schema, err := load.YAML(data)
	if err != nil {
		return nil, fmt.Errorf("skema: %w", err)
	}
	return Compile(schema, opts)
}

// MustCompile is like Compile but panics on error. Intended for package-level
// schema variables.
func MustCompile(schema any, opts Options) *Validator {
	v, err := Compile(schema, opts)
	if err != nil {
		panic(err)
	}
	return v
}

// CompileContext carries compile-time state for keyword compilers.
type CompileContext struct {
	opts     Options
	reg      *Registry
	resolver Resolver
	logger   *slog.Logger

	path []string // escaped schema tokens of the node being compiled
	// refs memoises plans per $ref so recursive schemas compile to a cyclic
	// plan graph.
	refs map[string]*Plan

	warnings []string
}

func newCompileContext(root any, opts Options) *CompileContext {
	cc := &CompileContext{
		opts:     opts,
		reg:      opts.Keywords,
		resolver: opts.Resolver,
		logger:   opts.Logger,
		refs:     map[string]*Plan{},
	}
	if cc.reg == nil {
		cc.reg = builtinRegistry
	}
	if cc.resolver == nil {
		cc.resolver = NewLocalResolver(root)
	}
	if cc.logger == nil {
		cc.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cc
}

// Options returns the options the validator is being compiled with.
func (cc *CompileContext) Options() Options { return cc.opts }

// Subschema compiles a nested schema. tokens are unescaped path segments
// relative to the current node, used for error locations.
func (cc *CompileContext) Subschema(schema any, tokens ...string) (*Plan, error) {
	n := len(cc.path)
	for _, t := range tokens {
		cc.path = append(cc.path, pointer.Escape(t))
	}
	p, err := cc.compile(schema)
	cc.path = cc.path[:n]
	return p, err
}

// Errorf builds a *CompileError for keyword at the current node.
func (cc *CompileContext) Errorf(keyword, format string, args ...any) error {
	tokens := cc.path
	if keyword != "" {
		tokens = append(slices.Clone(cc.path), pointer.Escape(keyword))
	}
	return &CompileError{SchemaPath: pointer.Fragment(tokens), Keyword: keyword, Err: fmt.Errorf(format, args...)}
}

// Warnf records a non-fatal diagnostic, exposed through Validator.Warnings.
func (cc *CompileContext) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	at := pointer.Fragment(cc.path)
	cc.warnings = append(cc.warnings, at+": "+msg)
	cc.logger.Warn(msg, "schemaPath", at)
}

func (cc *CompileContext) compile(schema any) (*Plan, error) {
	switch t := schema.(type) {
	case bool:
		if t {
			return truePlan, nil
		}
		return falsePlan, nil
	case map[string]any:
		p := &Plan{}
		if err := cc.build(p, t); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, cc.Errorf("", "schema must be an object or a boolean, got %T", schema)
}

// build fills p from a schema object: the default descriptor and the bound
// checks in phase order.
func (cc *CompileContext) build(p *Plan, m map[string]any) error {
	if d, ok := m["default"]; ok && cc.opts.UseDefaults != DefaultsOff {
		p.def = newDefaultValue(d, cc.opts.UseDefaults)
	}
	if ref, ok := m["$ref"]; ok {
		if kw, ok := cc.reg.Lookup("$ref"); ok {
			for k := range m {
				if k != "$ref" && k != "default" && !isBuiltinAnnotation[k] {
					cc.Warnf("keywords next to $ref are ignored")
					break
				}
			}
			c, err := kw.Compile(cc, ref, m)
			if err != nil {
				return err
			}
			if c != nil {
				p.bind("$ref", c)
			}
			return nil
		}
	}

	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	kws := make([]Keyword, 0, len(names))
	for _, k := range names {
		kw, ok := cc.reg.Lookup(k)
		if !ok {
			if unsupported[k] {
				cc.Warnf("keyword %q is not supported and is ignored", k)
			} else {
				cc.logger.Debug("unknown keyword ignored", "keyword", k, "schemaPath", pointer.Fragment(cc.path))
			}
			continue
		}
		kws = append(kws, kw)
	}
	cc.reg.sortKeywords(kws)
	for _, kw := range kws {
		c, err := kw.Compile(cc, m[kw.Name()], m)
		if err != nil {
			return err
		}
		if c != nil {
			p.bind(kw.Name(), c)
		}
	}
	return nil
}

var isBuiltinAnnotation = map[string]bool{
	"title": true, "description": true, "$schema": true, "$id": true, "$comment": true,
	"definitions": true, "$defs": true, "examples": true, "readOnly": true, "writeOnly": true,
}

// resolveRef returns the plan for ref, compiling its target on first use.
func (cc *CompileContext) resolveRef(ref string) (*Plan, error) {
	if p, ok := cc.refs[ref]; ok {
		return p, nil
	}
	target, err := cc.resolver.Resolve(ref)
	if err != nil {
		return nil, &CompileError{SchemaPath: pointer.Fragment(append(slices.Clone(cc.path), "$ref")), Keyword: "$ref", Err: err}
	}
	var tokens []string
	if raw, ok := pointer.Split(ref); ok {
		tokens = escapeAll(raw)
	}
	p := &Plan{}
	cc.refs[ref] = p
	if err := cc.buildRef(tokens, target, p); err != nil {
		return nil, err
	}
	return p, nil
}

// buildRef compiles a ref target into the placeholder p, with compile errors
// reported relative to the target's own location.
func (cc *CompileContext) buildRef(tokens []string, target any, p *Plan) error {
	savedPath := cc.path
	cc.path = tokens
	defer func() { cc.path = savedPath }()
	switch t := target.(type) {
	case bool:
		if t {
			p.kind = planTrue
		} else {
			p.kind = planFalse
		}
		return nil
	case map[string]any:
		return cc.build(p, t)
	}
	return cc.Errorf("", "schema must be an object or a boolean, got %T", target)
}
