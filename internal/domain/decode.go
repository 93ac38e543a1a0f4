package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MissingFieldError reports a required JSON key that was absent or null.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Type, e.Field)
}

// decodeRecord decodes data into out only when every required key is present
// and non-null, then applies out's field rules. On failure out is left for
// the caller to discard; callers copy it into the receiver only on success.
func decodeRecord(data []byte, out any, name string, required ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, key := range required {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return &MissingFieldError{Type: name, Field: key}
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return validateAs(name, out)
}
