package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid page", "list-users.md", false},
		{"valid folder", "users", false},
		{"valid with spaces", "Getting Started.mdx", false},
		{"valid dotted", "v1.2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"slash", "users/list.md", true},
		{"backslash", "users\\list.md", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateRoute(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"absolute", "/users/list", false},
		{"relative", "users/list", false},
		{"single", "ping", false},
		{"dots in segment", "/v1.2/status", false},

		{"empty", "", true},
		{"traversal", "/users/../../etc/passwd", true},
		{"leading traversal", "../secret", true},
		{"backslash", "users\\list", true},
		{"control char", "/users\x01", true},
		{"too long", "/" + strings.Repeat("a", 600), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoute(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoute(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
