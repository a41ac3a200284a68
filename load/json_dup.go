package load

import (
	"bytes"
	"fmt"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/skema/internal/pointer"
)

// DuplicateJSONKeyError reports a key that appears twice in one JSON object.
type DuplicateJSONKeyError struct {
	Key  string
	Path string // JSON Pointer of the object holding the key
}

func (e *DuplicateJSONKeyError) Error() string {
	return fmt.Sprintf("duplicate JSON key %q in object at %s", e.Key, e.Path)
}

type dupFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string // last key seen (objects)
	index        int    // next element index (arrays)
	token        string // escaped token of this container in its parent
}

// detectDuplicateKeys walks the token stream of data and returns the first
// duplicate object key. Syntax errors are left to the decoder.
func detectDuplicateKeys(data []byte) error {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []dupFrame

	// valueDone advances the enclosing container past one value.
	valueDone := func() {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			if top.object {
				top.expectingKey = true
			} else {
				top.index++
			}
		}
	}
	childToken := func() string {
		n := len(stack)
		if n == 0 {
			return ""
		}
		if top := stack[n-1]; top.object {
			return pointer.Escape(top.key)
		}
		return strconv.Itoa(stack[n-1].index)
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{', '[':
				stack = append(stack, dupFrame{object: v == '{', keys: map[string]struct{}{}, expectingKey: true, token: childToken()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, ok := top.keys[v]; ok {
					return &DuplicateJSONKeyError{Key: v, Path: framePath(stack)}
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

func framePath(stack []dupFrame) string {
	tokens := make([]string, 0, len(stack))
	for _, f := range stack[1:] {
		tokens = append(tokens, f.token)
	}
	return pointer.Join(tokens)
}
