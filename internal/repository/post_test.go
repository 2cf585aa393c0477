package repository

import "testing"

// ============================================================================
// Search term escaping
// ============================================================================

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "timeline", "timeline"},
		{"percent escaped", "100%", `100\%`},
		{"bare percent escaped", "%", `\%`},
		{"underscore escaped", "what_if", `what\_if`},
		{"backslash escaped first", `a\b`, `a\\b`},
		{"mixed metacharacters", `\%_`, `\\\%\_`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeLike(tt.in); got != tt.want {
				t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
