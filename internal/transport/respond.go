package transport

import (
	"net/http"

	"cosme-review/internal/middleware"
	"cosme-review/internal/service"
)

// respondValidationError writes a 400 with field details when err is a
// service validation error. Returns true when it handled the error.
func respondValidationError(w http.ResponseWriter, err error) bool {
	ve, ok := service.AsValidationError(err)
	if !ok {
		return false
	}

	fields := make([]middleware.ValidationError, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, middleware.ValidationError{
			Field:   f.Field,
			Message: f.Message,
		})
	}
	middleware.RespondWithValidationErrors(w, fields)
	return true
}
