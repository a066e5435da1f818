package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"4242", "4242"},
		{"42424", "4242 4"},
		{"4242424242424242", "4242 4242 4242 4242"},
		{"4242-4242-4242-4242", "4242 4242 4242 4242"},
		{"4242 4242 4242 4242 9999", "4242 4242 4242 4242"},
		{"abc", ""},
	}
	for _, tt := range tests {
		got := FormatCardNumber(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, got, FormatCardNumber(got), "not idempotent for %q", tt.in)
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"12", "12/"},
		{"122", "12/2"},
		{"1225", "12/25"},
		{"12/25", "12/25"},
		{"122599", "12/25"},
		{"ab12cd25", "12/25"},
	}
	for _, tt := range tests {
		got := FormatExpiry(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, got, FormatExpiry(got), "not idempotent for %q", tt.in)
	}
}

func TestCardDetails_Last4(t *testing.T) {
	assert.Equal(t, "4242", CardDetails{Number: "4000 0000 0000 4242"}.Last4())
	assert.Equal(t, "", CardDetails{Number: "12"}.Last4())
}
