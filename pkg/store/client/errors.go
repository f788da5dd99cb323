package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks requests that could not complete at all.
	ErrNetwork = errors.New("network failure")
	// ErrDecode marks responses whose body is not the expected JSON.
	ErrDecode = errors.New("malformed response")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Message returns the text shown to the user for a failed fetch. Status
// failures read "HTTP <status>"; everything else falls back to the given text.
func Message(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Error()
	}
	return fallback
}
