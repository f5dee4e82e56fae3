package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhonePolicyNormalize(t *testing.T) {
	policy := DefaultPhonePolicy()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ten digits get prefix", "3794595272", "5493794595272"},
		{"separators stripped before prefixing", "11-2345-6789", "5491123456789"},
		{"spaces and parens", "(379) 459 5272", "5493794595272"},
		{"already international", "+54 9 379 459-5272", "5493794595272"},
		{"short number unchanged", "12345", "12345"},
		{"eleven digits unchanged", "03794595272", "03794595272"},
		{"no digits", "abc", ""},
		{"non ascii digits dropped", "３７９4595272", "4595272"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Normalize(tt.in))
		})
	}
}

func TestPhonePolicyIsConfigurable(t *testing.T) {
	mx := PhonePolicy{Prefix: "521", LocalDigits: 10}
	assert.Equal(t, "5215512345678", mx.Normalize("55 1234 5678"))

	none := PhonePolicy{}
	assert.Equal(t, "3794595272", none.Normalize("3794595272"))
}

func TestChatID(t *testing.T) {
	assert.Equal(t, "5493794595272@c.us", ChatID("5493794595272"))
}
