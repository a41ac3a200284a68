package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// JSON decodes a single JSON document into JSON-like Go values
// (map[string]any, []any, string, bool, nil). Numbers are kept as json.Number
// so that integer-ness and precision survive until validation. Duplicate
// object keys are rejected with a *DuplicateJSONKeyError; trailing data after
// the document is an error.
func JSON(data []byte) (any, error) {
	if err := detectDuplicateKeys(data); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("load: empty JSON input: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("load: invalid JSON: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("load: invalid JSON: trailing data after document")
	}
	return v, nil
}

// JSONReader is like JSON but reads the document from r.
func JSONReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return JSON(data)
}
