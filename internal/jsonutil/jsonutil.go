// Package jsonutil provides utility functions for JSON text encoding.
package jsonutil

import (
	"bytes"
	"encoding/json"
)

// Compact encodes v as a single line of JSON with no trailing newline.
// HTML characters are written literally so the text survives unchanged for non-browser clients.
func Compact(v interface{}) ([]byte, error) {
	return encode(v, "")
}

// Indent encodes v as JSON indented with two spaces.
func Indent(v interface{}) (string, error) {
	data, err := encode(v, "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Text renders a value for a text content block.
// Strings are passed through untouched, anything else becomes indented JSON.
func Text(v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return Indent(v)
}

func encode(v interface{}, indent string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	// Encoder always terminates with a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
