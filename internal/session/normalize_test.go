package session

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		answer, expected string
		want             bool
	}{
		{" Casa ", "casa", true},
		{"CASA", "casa", true},
		{"casa\t\n", " Casa", true},
		{"casa", "cosa", false},
		{"cas", "casa", false},
		{"cafe", "café", false},
		{"buenos  dias", "buenos dias", false},
		{"", "casa", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.answer, tt.expected); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.answer, tt.expected, got, tt.want)
		}
	}
}
