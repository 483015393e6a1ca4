package jsonschema

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Decode parses raw JSON into a schema node: a bool for the boolean schema
// forms, or an Object.
func Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("jsonschema: decode: %w", err)
	}
	switch s := v.(type) {
	case bool:
		return s, nil
	case map[string]any:
		return Object(s), nil
	default:
		return nil, fmt.Errorf("jsonschema: document is neither an object nor a boolean (got %T)", v)
	}
}

// Load reads and decodes a schema document from disk.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: load %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: load %s: %w", path, err)
	}
	return doc, nil
}
