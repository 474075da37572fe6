package storefront

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from one attempt.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

// TransportError is returned once every attempt of a request has failed, or
// when the circuit breaker refuses the call. Err is the last cause.
type TransportError struct {
	Platform string
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed after %d attempt(s): %v", e.Platform, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status of the last attempt, or 0 for network failures.
func (e *TransportError) Status() int {
	var apiErr *APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound reports whether the upstream answered 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
