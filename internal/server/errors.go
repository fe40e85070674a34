package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/hired-always/internal/schemas"
	"github.com/jonathan/hired-always/internal/tracker"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates the server was started without a collaborator the
// request needs.
type ErrUnavailable struct {
	Resource string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available", e.Resource)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		unavail    *ErrUnavailable
		schemaErr  *schemas.ValidationError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrInvalid), errors.As(err, &validation), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &unavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
