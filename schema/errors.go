package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrUnknownProfile is returned when a registry lookup names a variant
	// profile that was never configured.
	ErrUnknownProfile = errors.New("unknown variant profile")

	// ErrUnknownField is returned when a variant configuration references
	// a field the base schema does not declare.
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError represents a single field failing its declared contract.
type ValidationError struct {
	Schema   string `json:"schema"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field '%s': %s (schema %s)", e.Field, e.Message, e.Schema)
	}
	return fmt.Sprintf("%s (schema %s)", e.Message, e.Schema)
}

// MultiValidationError aggregates multiple validation errors.
type MultiValidationError struct {
	Errors []*ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// ValidationDetailer surfaces structured validation details so consumers
// extract field-level information without type-asserting against concrete
// structs.
type ValidationDetailer interface {
	Details() map[string]interface{}
}

// Details returns the structured fields from this single validation error.
func (e *ValidationError) Details() map[string]interface{} {
	d := make(map[string]interface{})
	if e.Field != "" {
		d["field"] = e.Field
	}
	if e.Expected != "" {
		d["expected"] = e.Expected
	}
	if e.Actual != "" {
		d["actual"] = e.Actual
	}
	return d
}

// Details aggregates the failed field names from all child errors.
func (e *MultiValidationError) Details() map[string]interface{} {
	d := make(map[string]interface{})
	var fields []string
	for _, ve := range e.Errors {
		if ve.Field != "" {
			fields = append(fields, ve.Field)
		}
	}
	if len(fields) > 0 {
		d["fields"] = fields
	}
	return d
}

// NewRequiredFieldError creates an error for a missing required field.
func NewRequiredFieldError(schema, field string) *ValidationError {
	return &ValidationError{
		Schema:  schema,
		Field:   field,
		Message: "required field is missing",
	}
}

// NewKindMismatchError creates an error for a value of the wrong kind.
func NewKindMismatchError(schema, field string, expected Kind, actual any) *ValidationError {
	return &ValidationError{
		Schema:   schema,
		Field:    field,
		Message:  fmt.Sprintf("expected %s, got %T", expected, actual),
		Expected: string(expected),
		Actual:   fmt.Sprintf("%T", actual),
	}
}
