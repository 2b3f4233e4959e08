package firefly

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse marks a 2xx response missing the expected data
	// envelope.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrNoTransactions is returned when a transaction query matches nothing.
	ErrNoTransactions = errors.New("no matching transactions")
)

// APIError is a non-2xx status reported by the backend. The raw response
// body is kept for diagnostics; the client never retries.
type APIError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// NetworkError is a transport-level failure reaching the backend (timeout,
// connection refused, DNS), as opposed to a backend-reported status.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
