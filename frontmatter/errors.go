package frontmatter

import (
	"errors"
	"fmt"
)

var (
	ErrNoFrontMatter = errors.New("no front matter")
	ErrUnterminated  = errors.New("unterminated front matter")
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidDate   = errors.New("invalid date")
)

// ParseError is returned when a document cannot be turned into Attributes.
type ParseError struct {
	Name   string // Source identifier, if known
	Format Format // Front matter format, zero if it could not be determined
	Err    error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("parse %s: %s", e.Name, e.Err)
	}
	return fmt.Sprintf("parse: %s", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError names a required field that was absent or empty.
type FieldError struct {
	Field string
}

// Error implements error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingField, e.Field)
}

// Is reports whether target is ErrMissingField.
func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missingField(name string) error {
	return &FieldError{Field: name}
}
