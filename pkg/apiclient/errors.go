package apiclient

import (
	"errors"
	"fmt"
)

// AuthError indicates the request could not be authenticated: either no
// credential is saved locally, or the app rejected the one we sent (401/403).
// Callers should treat this as "re-run the pairing flow".
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// APIError is an application-level error reported by the app for a non-2xx
// status outside the auth range. Message is the app's own message when the
// error envelope was decodable, or a synthesized status+body summary when not.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// InvalidResponseError indicates a 2xx response whose body could not be
// decoded into the expected type. This is a contract violation between client
// and app (a bug or version mismatch), not something the user can act on.
type InvalidResponseError struct {
	Target string // name of the Go type we tried to decode into
	Body   string // raw response body, for diagnostics
	Err    error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response: cannot decode body into %s: %v (body: %s)", e.Target, e.Err, e.Body)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsAPIError reports whether err is (or wraps) an APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// IsInvalidResponse reports whether err is (or wraps) an InvalidResponseError.
func IsInvalidResponse(err error) bool {
	var ie *InvalidResponseError
	return errors.As(err, &ie)
}
