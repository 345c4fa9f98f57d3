package authclient

import (
	"fmt"

	"github.com/jrsteele09/go-classroom/internal/errors"
)

// Per-operation messages used when the service gives no error text
const (
	FallbackSignIn  = "Sign in failed"
	FallbackSignUp  = "Sign up failed"
	FallbackSignOut = "Sign out failed"
)

// RequestError is the single failure kind of the client: the remote call
// did not succeed. Error() is the human readable message, taken from the
// response body's "error" or "message" field, else the operation fallback.
type RequestError struct {
	Op         string // signin, signup or signout
	StatusCode int    // zero when no response was received
	Message    string
	Err        error // transport or decode failure, if any
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is makes every RequestError match errors.ErrRequestFailed
func (e *RequestError) Is(target error) bool {
	return target == errors.ErrRequestFailed
}

// Detail includes the operation, status and cause for logs
func (e *RequestError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: status %d: %s: %v", e.Op, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

func messageFrom(body errorBody, fallback string) string {
	if body.Error != "" {
		return body.Error
	}
	if body.Message != "" {
		return body.Message
	}
	return fallback
}
