package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPermissionDenied is returned when the requester may not perform the
// operation: a non-owner editing or deleting a review, or a non-staff caller
// mutating the catalog. No mutation has happened when it is returned.
var ErrPermissionDenied = errors.New("permission denied")

// FieldError describes a single invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field validation failures. It is returned
// before any persistence mutation, so a failed publish or edit leaves the
// stored review untouched.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError, if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
