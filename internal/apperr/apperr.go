// Package apperr carries the error taxonomy shared by handlers, services
// and workers. Anything that is not one of these kinds is treated as an
// internal failure and must not be masked as a 401/404.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrNotFound     = errors.New("Not found")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPStatus maps an error to the status code the HTTP layer should answer
// with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing error string. Internal failures are not
// echoed back to the caller.
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal error"
	}
	return err.Error()
}
