package messaging

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SendRequest represents a request to send a text message
type SendRequest struct {
	Telefono PhoneNumber `json:"telefono" validate:"required"`
	Mensaje  string      `json:"mensaje" validate:"required"`
}

// SendResult is returned after a successful delivery
type SendResult struct {
	Success  bool   `json:"success"`
	EnviadoA string `json:"enviadoA"`
}

// PhoneNumber accepts either a JSON string or a JSON number, since spreadsheet
// cells holding phone numbers are often serialized as numbers.
type PhoneNumber string

// UnmarshalJSON implements json.Unmarshaler
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PhoneNumber(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("telefono must be a string or a number: %w", err)
		}
		if !isPlainInteger(n.String()) {
			return fmt.Errorf("telefono must be a whole number, got %s", n)
		}
		*p = PhoneNumber(n.String())
		return nil
	}
}

// isPlainInteger reports whether s holds only ASCII digits.
func isPlainInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
