package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidResponse is returned when a 2xx body cannot be decoded as JSON.
var ErrInvalidResponse = errors.New("invalid JSON response")

// Error is returned when the backend answers with a non-2xx status.
// Body holds the response text verbatim.
type Error struct {
	Endpoint   string
	StatusCode int
	Body       string
}

// Error returns the backend's own text so it can be surfaced to the caller
// unchanged. An empty body falls back to the status line.
func (e *Error) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsError reports whether err carries a non-2xx backend response.
func IsError(err error) bool {
	var be *Error
	return errors.As(err, &be)
}
