package messaging

import "strings"

// ChatSuffix is appended to normalized digits to form a chat identifier.
const ChatSuffix = "@c.us"

// PhonePolicy is the regional normalization heuristic: numbers that strip to
// exactly LocalDigits digits get Prefix prepended, all others are used as-is.
type PhonePolicy struct {
	Prefix      string
	LocalDigits int
}

// DefaultPhonePolicy is the Argentine mobile convention ("549" + 10 digits).
func DefaultPhonePolicy() PhonePolicy {
	return PhonePolicy{Prefix: "549", LocalDigits: 10}
}

// Normalize strips every non-digit character, then applies the prefix rule.
func (p PhonePolicy) Normalize(raw string) string {
	digits := stripNonDigits(raw)
	if p.LocalDigits > 0 && len(digits) == p.LocalDigits {
		return p.Prefix + digits
	}
	return digits
}

// ChatID builds the chat identifier for normalized digits.
func ChatID(digits string) string {
	return digits + ChatSuffix
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
