package errors

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// FieldError describes one invalid field of a larger input.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects field errors so callers can report all of them at once.
type ValidationErrors []FieldError

// Add appends a field error.
func (v *ValidationErrors) Add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when empty, otherwise an *Error with [ErrCodeInvalidInput].
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return New(ErrCodeInvalidInput, "%s", strings.Join(parts, "; "))
}

var solverNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateSolverName checks that a solver name is a lowercase identifier.
func ValidateSolverName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "solver name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidName, "solver name too long (max 64 characters)")
	}
	if !solverNameRe.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid solver name: %q", name)
	}
	return nil
}

// ValidateSlug validates a tab or document name.
// It rejects names that could escape a directory when used as a file name:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}
	if len(slug) > 128 {
		return New(ErrCodeInvalidName, "name too long (max 128 characters)")
	}
	for _, r := range slug {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(slug, pattern) {
			return New(ErrCodeInvalidName, "name contains invalid characters: %q", pattern)
		}
	}
	return nil
}
