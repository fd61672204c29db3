package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the server
type APIError struct {
	Status int
	// Type is the problem type URI, when the server sent one
	Type string `json:"type"`
	// Message is the localized error text shown to users
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("salt: %d: %s", e.Status, e.Message)
}

// HasStatus reports whether err is an APIError with the given status
func HasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports whether the server rejected the token
func IsUnauthorized(err error) bool {
	return HasStatus(err, http.StatusUnauthorized)
}

// ErrNotLoggedIn is returned by calls that need a session when none is active
var ErrNotLoggedIn = errors.New("salt: not logged in")
