// Package schema validates and normalizes tool parameters for the vector
// index tools.
//
// Validation here is pure and synchronous: every function either returns a
// normalized value or a *FieldError naming the offending field and the
// constraint it violated. Optional parameters arrive as pointers; nil means
// "not provided" and normalizes to omission from the outgoing request. No
// function in this package performs I/O.
package schema

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	// MaxIndexNameLength is the maximum length of an index name.
	MaxIndexNameLength = 64

	// MaxDescriptionLength is the maximum length of an index description.
	MaxDescriptionLength = 1024
)

// indexNamePattern matches valid index names: 1-64 characters from
// [A-Za-z0-9_-]. Uniqueness per account is enforced by the remote service.
var indexNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// FieldError is a validation failure for a single parameter field.
type FieldError struct {
	// Field is the parameter name as the caller supplied it.
	Field string

	// Reason describes the violated constraint.
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// errf builds a FieldError with a formatted reason.
func errf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateIndexName checks the index name against the length and character
// set rules. Names are immutable once an index is created.
func ValidateIndexName(name string) error {
	if name == "" {
		return errf("name", "index name is required")
	}
	if !indexNamePattern.MatchString(name) {
		return errf("name", "must be 1-%d characters of letters, digits, underscore or hyphen, got %q",
			MaxIndexNameLength, name)
	}
	return nil
}

// NormalizeDescription validates an optional description and normalizes the
// absent form. nil and empty both normalize to "" (omitted downstream).
func NormalizeDescription(desc *string) (string, error) {
	if desc == nil {
		return "", nil
	}
	if utf8.RuneCountInString(*desc) > MaxDescriptionLength {
		return "", errf("description", "must be at most %d characters", MaxDescriptionLength)
	}
	return *desc, nil
}
