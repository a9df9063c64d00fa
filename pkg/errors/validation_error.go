package errors

import (
	"fmt"
	"strings"
)

// ValidationError reports required fields that were empty at save time.
// It is raised before any network call is made.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields: %s", strings.Join(e.MissingFields, ", "))
}

func NewValidationError(missing ...string) *ValidationError {
	return &ValidationError{MissingFields: missing}
}
