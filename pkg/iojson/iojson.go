// Package iojson reads command input and writes command output as JSON.
// Data goes to stdout, failures go to stderr as an Error document so
// scripts can parse both.
package iojson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the document written when a command fails.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// fallback is written when obj itself cannot be encoded, which is a bug.
func fallback(msg string, encErr error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(encErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// encode renders obj indented without HTML escaping; notes routinely hold
// '<' and '&'.
func encode(obj any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalError renders an Error document.
func MarshalError(msg string, data map[string]any) string {
	bits, err := encode(Error{Message: msg, Data: data})
	if err != nil {
		return fallback(msg, err)
	}
	return string(bytes.TrimRight(bits, "\n"))
}

// WriteErrorTo writes an Error document to w.
func WriteErrorTo(w io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(w, MarshalError(msg, data))
	return err
}

// WriteError writes an Error document to stderr.
func WriteError(msg string, data map[string]any) error {
	return WriteErrorTo(os.Stderr, msg, data)
}

// WriteWith writes obj to w. Encoding failures are reported on ew.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := encode(obj)
	if err != nil {
		return WriteErrorTo(ew, "error marshaling output", map[string]any{"json_error": err.Error()})
	}

	_, err = w.Write(bits)
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr]
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
