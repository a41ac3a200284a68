// Package pointer renders and parses RFC 6901 JSON Pointers.
package pointer

import (
	"strings"
)

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape escapes a single reference token.
func Escape(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	return escaper.Replace(token)
}

// Unescape reverses Escape.
func Unescape(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	return unescaper.Replace(token)
}

// Join renders already escaped tokens as a pointer. An empty token list
// renders as root, which is "/" for instance paths.
func Join(tokens []string) string {
	if len(tokens) == 0 {
		return "/"
	}
	n := len(tokens)
	for _, t := range tokens {
		n += len(t)
	}
	b := strings.Builder{}
	b.Grow(n)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(t)
	}
	return b.String()
}

// Fragment renders escaped tokens as a URI fragment pointer ("#/a/b").
func Fragment(tokens []string) string {
	if len(tokens) == 0 {
		return "#"
	}
	return "#" + Join(tokens)
}

// Split parses a pointer ("/a/b" or "#/a/b") into unescaped tokens. ok is
// false when p is neither empty, "#", nor starts with "/" after the optional
// "#".
func Split(p string) (tokens []string, ok bool) {
	p = strings.TrimPrefix(p, "#")
	if p == "" {
		return nil, true
	}
	if p[0] != '/' {
		return nil, false
	}
	parts := strings.Split(p[1:], "/")
	for i := range parts {
		parts[i] = Unescape(parts[i])
	}
	return parts, true
}
