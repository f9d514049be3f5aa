package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RedactJSON overwrites the value of every key that appears in
// replacements, at any depth of the document, and reports whether anything
// changed. Values already equal to their replacement count as unchanged.
func RedactJSON(doc string, replacements map[string]string) (string, bool, error) {
	if doc == "" {
		return doc, false, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return doc, false, fmt.Errorf("decode payload: %w", err)
	}
	v, changed := redactValue(v, replacements)
	if !changed {
		return doc, false, nil
	}
	out, err := json.Marshal(v)
	if err != nil {
		return doc, false, fmt.Errorf("encode payload: %w", err)
	}
	return string(out), true, nil
}

func redactValue(v any, replacements map[string]string) (any, bool) {
	switch node := v.(type) {
	case map[string]any:
		changed := false
		for k, child := range node {
			if token, ok := replacements[k]; ok {
				if child != token {
					node[k] = token
					changed = true
				}
				continue
			}
			next, c := redactValue(child, replacements)
			if c {
				node[k] = next
				changed = true
			}
		}
		return node, changed
	case []any:
		changed := false
		for i, child := range node {
			next, c := redactValue(child, replacements)
			if c {
				node[i] = next
				changed = true
			}
		}
		return node, changed
	default:
		return v, false
	}
}
