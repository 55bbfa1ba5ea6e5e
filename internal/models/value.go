package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Value is a display scalar from the backend. The API sends the same field
// as a string, a number, or null depending on the source it scraped.
type Value string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(strings.TrimSpace(s))
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		// Structured values have no scalar display form.
		*v = ""
		return nil
	}
	*v = Value(data)
	return nil
}

// String returns the raw text.
func (v Value) String() string { return string(v) }

// OrDash returns the value, or "-" when empty.
func (v Value) OrDash() string {
	if v == "" {
		return "-"
	}
	return string(v)
}

// IsSet reports whether the value carries something other than a placeholder.
func (v Value) IsSet() bool {
	s := strings.TrimSpace(string(v))
	return s != "" && s != "-"
}
