package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"King Coconut Water", "king-coconut-water"},
		{"Extra Virgin Coconut Oil", "extra-virgin-coconut-oil"},
		{"Açaí & Cacao", "acai-and-cacao"},
		{"Crème Brûlée", "creme-brulee"},
		{"Hello   World!", "hello-world"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"100% Natural", "100-natural"},
		{"a--b", "a-b"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}
