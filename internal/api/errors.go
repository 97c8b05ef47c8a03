package api

import (
	"errors"
	"fmt"
)

// Sentinel errors the UI branches on. Both wrap an *APIError carrying the
// server's message when one was present.
var (
	// ErrNotFound marks a paste that is absent or expired; the view shows a
	// dedicated not-found state rather than a generic failure.
	ErrNotFound = errors.New("api: not found")

	// ErrUnauthorized marks a missing or rejected token on an owner-scoped
	// operation; the view redirects to the login entry point.
	ErrUnauthorized = errors.New("api: unauthorized")
)

// APIError is a non-success HTTP response decoded from the server's JSON
// error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// UserMessage extracts a message suitable for a notification: the server's
// own wording when available, else a generic fallback.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Paste not found"
	case errors.Is(err, ErrUnauthorized):
		return "You must be logged in"
	}
	return "Something went wrong, please try again"
}
