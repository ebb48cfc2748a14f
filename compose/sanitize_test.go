package compose

import "testing"

func TestSanitizeNodeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"passthrough", "Engine Block-01", "Engine Block-01"},
		{"trims whitespace", "  wheel  ", "wheel"},
		{"replaces each offender", "a/b:c", "a_b_c"},
		{"no run collapsing", "a//b", "a__b"},
		{"keeps underscores", "left_door", "left_door"},
		{"unicode becomes underscores", "naïve", "na_ve"},
		{"empty", "", "node"},
		{"all underscores", "___", "node"},
		{"whitespace only", "   ", "node"},
		{"slashes only", "///", "node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeNodeName(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeNodeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := SanitizeNodeName(got); again != got {
				t.Errorf("not idempotent: second pass turned %q into %q", got, again)
			}
		})
	}
}
