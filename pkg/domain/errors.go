package domain

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is reported before any network activity when the
// API key environment variable is absent.
var ErrMissingCredential = errors.New("AI_API_KEY is not set")

// ErrNoReply marks a successful response that carried zero choices. It is a
// soft condition: callers show a notice instead of failing.
var ErrNoReply = errors.New("no reply received from AI")

// TransportError means the request could not be sent or no response was
// received (DNS, connection, TLS, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("sending request: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a non-success HTTP status from the endpoint, with the
// response body captured for diagnostics.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string { return fmt.Sprintf("api error: %d - %s", e.Status, e.Body) }

// MalformedResponseError means the response body did not parse into the
// expected schema.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string { return fmt.Sprintf("parsing response: %v", e.Err) }

func (e *MalformedResponseError) Unwrap() error { return e.Err }
