package provider

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the provider conflict and auth signals. Callers
// branch on these with errors.Is; everything else surfaces as *Error.
var (
	// ErrAlreadyExists is returned by CreateAccount when the provider
	// reports that the address is already registered.
	ErrAlreadyExists = errors.New("address already exists")

	// ErrRateLimited is returned when the provider throttles the request.
	// No automatic retry is attempted; retrying is the caller's decision.
	ErrRateLimited = errors.New("rate limited by provider")

	// ErrAuthFailed is returned by Login when the provider does not
	// issue a token for the given credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUnauthorized is returned when a bearer token is rejected on a
	// later call. Callers treat this as session expiry.
	ErrUnauthorized = errors.New("token rejected")

	// ErrNotFound is returned when a requested message does not exist.
	ErrNotFound = errors.New("message not found")
)

// Error is an unexpected or malformed provider response: a non-2xx status
// outside the mapped signals, or a body that failed to decode.
type Error struct {
	Status      int
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider error (status %d)", e.Status)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Description)
}

// Description extracts the provider's human-readable error text from err,
// or the plain error string when err is not a *Error.
func Description(err error) string {
	var pe *Error
	if errors.As(err, &pe) && pe.Description != "" {
		return pe.Description
	}
	return err.Error()
}

// IsInvalidAddress reports whether the provider's error text indicates a
// malformed or upper-cased address, so callers can present a specific
// message instead of the raw provider text.
func IsInvalidAddress(err error) bool {
	text := strings.ToLower(Description(err))
	return strings.Contains(text, "must be a valid email address") ||
		strings.Contains(text, "invalid email address") ||
		strings.Contains(text, "uppercase")
}
