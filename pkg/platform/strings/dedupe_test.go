package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "case-insensitive duplicates", input: []string{"Gate", "gate", "GATE"}, expected: []string{"gate"}},
		{name: "trims and drops blanks", input: []string{"  policy_text ", "", "   "}, expected: []string{"policy_text"}},
		{name: "keeps first-seen order", input: []string{"gates", "Gate", "gates", "vendor_policy_text"}, expected: []string{"gates", "gate", "vendor_policy_text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}
