package template

import (
	"errors"
	"testing"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
		value   any
		want    string
	}{
		{"single", "route: (ROUTE)", "ROUTE", "/users/get", "route: /users/get"},
		{"repeated", "(A) and (A)", "A", "x", "x and x"},
		{"integer", "sidebar_position: (SIDEBAR_POSITION)", "SIDEBAR_POSITION", 3, "sidebar_position: 3"},
		{"prefix does not match", "(METHOD_COLOUR)", "METHOD", "GET", "(METHOD_COLOUR)"},
		{"absent", "nothing here", "ROUTE", "x", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := New(tt.content)
			tpl.Replace(tt.key, tt.value)
			if got := tpl.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	orig := New("(X)")
	c := orig.Clone()
	c.Replace("X", "filled")
	if orig.String() != "(X)" {
		t.Errorf("original modified: %q", orig.String())
	}
	if c.String() != "filled" {
		t.Errorf("clone = %q", c.String())
	}
}

func TestRemoveBlockIf(t *testing.T) {
	const content = "head\n(P)\nbody\n(/P)\ntail"

	tests := []struct {
		name    string
		content string
		remove  bool
		want    string
	}{
		{"remove block", content, true, "head\ntail"},
		{"keep body", content, false, "head\nbody\ntail"},
		{"two blocks removed", "a\n(P)\nx\n(/P)\nb\n(P)\ny\n(/P)\nc", true, "a\nb\nc"},
		{"two blocks kept", "a\n(P)\nx\n(/P)\nb\n(P)\ny\n(/P)\nc", false, "a\nx\nb\ny\nc"},
		{"single line block", "a\n(P) inline (/P)\nb", false, "a\nb"},
		{"no markers", "plain", true, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := New(tt.content)
			if err := tpl.RemoveBlockIf("P", tt.remove); err != nil {
				t.Fatalf("RemoveBlockIf: %v", err)
			}
			if got := tpl.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveBlockIfUnbalanced(t *testing.T) {
	for _, content := range []string{
		"(P)\nbody",
		"body\n(/P)",
		"(/P)\nbody\n(P)",
		"(P)\n(P)\n(/P)\n(/P)",
	} {
		tpl := New(content)
		err := tpl.RemoveBlockIf("P", true)
		if !errors.Is(err, ErrUnbalanced) {
			t.Errorf("%q: err = %v, want ErrUnbalanced", content, err)
		}
		if tpl.String() != content {
			t.Errorf("%q: content changed to %q", content, tpl.String())
		}
	}
}
