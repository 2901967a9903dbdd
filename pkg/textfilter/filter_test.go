package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFamilyFilter_Filter(t *testing.T) {
	filter := NewFamilyFilter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "What the hell is going on?",
			expected: "What the heck is going on?",
		},
		{
			name:     "multiple replacements",
			input:    "This is damn crap!",
			expected: "This is dang crumbs!",
		},
		{
			name:     "case preservation - uppercase",
			input:    "DAMN that's annoying!",
			expected: "DANG that's annoying!",
		},
		{
			name:     "case preservation - title case",
			input:    "Hell no, that's not right",
			expected: "Heck no, that's not right",
		},
		{
			name:     "case preservation - mixed case",
			input:    "HeLl yeah, that's DaMn good!",
			expected: "HeCk yeah, that's DaNg good!",
		},
		{
			name:     "word boundaries - partial matches are left alone",
			input:    "I love classical music and seashells",
			expected: "I love classical music and seashells",
		},
		{
			name:     "plurals keep their suffix",
			input:    "There are too many assholes and bastards here!",
			expected: "There are too many grinches and scrooges here!",
		},
		{
			name:     "clean text is unchanged",
			input:    "*adjusts spectacles* Chemistry! Let me tell you about atoms...",
			expected: "*adjusts spectacles* Chemistry! Let me tell you about atoms...",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "punctuation around words",
			input:    "What the hell?! That's damn crazy.",
			expected: "What the heck?! That's dang crazy.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.Filter(tt.input))
		})
	}
}

func TestFamilyFilter_Contains(t *testing.T) {
	filter := NewFamilyFilter()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "mild word", input: "What the hell is this?", expected: true},
		{name: "case insensitive", input: "HELL no!", expected: true},
		{name: "plural", input: "These DAMNS are everywhere!", expected: true},
		{name: "partial word", input: "I love classical music", expected: false},
		{name: "clean", input: "Snowflakes are hexagonal crystals.", expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.Contains(tt.input))
		})
	}
}

func TestFamilyFilter_FilteredTextIsClean(t *testing.T) {
	filter := NewFamilyFilter()

	input := "That was damn hard! What the hells were you thinking, you stupid jackass?"
	filtered := filter.Filter(input)

	assert.Equal(t, "That was dang hard! What the hecks were you thinking, you silly nincompoop?", filtered)
	assert.True(t, filter.Contains(input))
	assert.False(t, filter.Contains(filtered))
}
