package auth

import (
	"errors"
	"net/http"
)

// StatusError is a transport-level failure carrying an HTTP status code.
// These are terminal for the request: the server translates them into a
// JSON error body once, at the top.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *StatusError {
	return &StatusError{Code: http.StatusUnauthorized, Message: message}
}

// NotFound builds a 404 error.
func NotFound(message string) *StatusError {
	return &StatusError{Code: http.StatusNotFound, Message: message}
}

// StatusOf returns the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return http.StatusInternalServerError
}
