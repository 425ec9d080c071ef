package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a request fails with 401 and the
// one-shot token refresh did not recover the session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRateLimited is returned when the service responds with 429.
var ErrRateLimited = errors.New("rate limited")

// ErrNotLoggedIn is returned when no credentials are stored.
var ErrNotLoggedIn = errors.New("not logged in")

// StatusError is returned for unexpected non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
