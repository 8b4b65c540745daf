package api

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is.
var (
	// ErrValidation is returned before any request is made, for missing input.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized means the identity service rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is a 404 from the identity service.
	ErrNotFound = errors.New("not found")
	// ErrService covers any other non-success status or an unreadable response.
	ErrService = errors.New("service error")
	// ErrUnavailable means the request never got a response.
	ErrUnavailable = errors.New("server unavailable")
)

// StatusError carries the HTTP status of a failed call. It unwraps to the
// matching error kind.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
	kind   error
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d from %s %s", e.Code, e.Method, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s %s: %s", e.Code, e.Method, e.URL, e.Body)
}

func (e *StatusError) Unwrap() error { return e.kind }

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
