package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a single per-field, user-correctable failure.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects failures from one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// First returns the first message recorded for field, or "" if the field
// passed. Callers surface only the first violation per field.
func (ve ValidationErrors) First(field string) string {
	for _, err := range ve {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

func (ve ValidationErrors) Has(field string) bool {
	return ve.First(field) != ""
}

// Rule is a single validation check with the error to report on failure.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs the rules in order and returns the collected failures, or nil
// when everything passed.
func Apply(rules ...Rule) error {
	var ve ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			ve = append(ve, rule.Error)
		}
	}
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// Extract pulls ValidationErrors out of an error chain, or nil if err is
// not a validation failure.
func Extract(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
