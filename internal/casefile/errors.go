package casefile

import (
	"fmt"
	"strings"
)

// FormatError means the file could not be recognized or decoded as any of the
// supported case encodings.
type FormatError struct {
	Path   string
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed case file %s: %s", e.Path, e.Detail)
}

// EmptyInputError means the file had no content to parse.
type EmptyInputError struct {
	Path string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("empty case file %s", e.Path)
}

// MissingFieldError names a required field or column absent from the input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %s", e.Field)
}

// ValidationError names every field that violated the case schema.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid case: %s", strings.Join(e.Fields, ", "))
}
