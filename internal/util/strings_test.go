package util

import "testing"

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "empty string", input: "", expected: false},
		{name: "simple", input: "loop", expected: true},
		{name: "underscore prefix", input: "_start", expected: true},
		{name: "dot prefix", input: ".Lend", expected: true},
		{name: "digits after first", input: "l1", expected: true},
		{name: "dollar after first", input: "a$b", expected: true},
		{name: "leading digit", input: "1abc", expected: false},
		{name: "leading dollar", input: "$x", expected: false},
		{name: "contains dash", input: "a-b", expected: false},
		{name: "contains space", input: "a b", expected: false},
		{name: "non-ascii", input: "метка", expected: false},
		{name: "number", input: "42", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsIdentifier(tt.input)
			if got != tt.expected {
				t.Errorf("IsIdentifier(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
