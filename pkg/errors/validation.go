package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds entry names, which become file and directory names.
const maxNameLength = 255

// ValidateName validates a spec entry name for use as a single path element.
// It rejects names that could escape the build directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators (/ or \)
//   - Not "." or ".."
//   - Maximum length of 255 bytes
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "entry name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "entry name too long (max %d bytes): %.32q...", maxNameLength, name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "entry name %q contains control characters", name)
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "entry name %q cannot contain path separators", name)
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidName, "entry name %q is reserved", name)
	}

	return nil
}

// ValidateRoute validates an endpoint route used to locate footer files.
// Routes are slash-separated and may be absolute ("/users/list"), but must
// not traverse upward.
//
// Validation rules:
//   - Route cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateRoute(route string) error {
	if route == "" {
		return New(ErrCodeInvalidSpec, "route cannot be empty")
	}

	const maxRouteLength = 500
	if len(route) > maxRouteLength {
		return New(ErrCodeInvalidSpec, "route too long (max %d characters)", maxRouteLength)
	}

	for _, r := range route {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSpec, "route %q contains invalid characters", route)
		}
	}

	for _, seg := range strings.Split(route, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidSpec, "route %q cannot contain path traversal sequences (..)", route)
		}
	}

	if strings.Contains(route, "\\") {
		return New(ErrCodeInvalidSpec, "route %q cannot contain backslashes", route)
	}

	return nil
}
