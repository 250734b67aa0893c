package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendRejected marks a non-2xx answer from the payments backend.
	ErrBackendRejected = errors.New("backend rejected request")
	// ErrBackendUnreachable marks a transport failure (DNS, refused, timeout).
	ErrBackendUnreachable = errors.New("backend unreachable")
	// ErrInvalidResponse marks a 2xx body that does not match the expected schema.
	ErrInvalidResponse = errors.New("invalid backend response")
	ErrBatchNotFound   = errors.New("batch not found")
)

// BackendError carries the status and the human-readable message of a
// rejected backend call.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

func (e *BackendError) Unwrap() error {
	return ErrBackendRejected
}

// AuthError is returned by login and registration. Message is safe to show
// to the operator; Err keeps the cause for errors.Is / errors.As.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
