package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means no upstream credential is stored.
	ErrNotConfigured = errors.New("chat credential not configured")
	// ErrBusy means the session is still processing a previous message.
	ErrBusy = errors.New("a message is already being processed")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type UnavailableError struct{ Message string }

func (e *UnavailableError) Error() string { return e.Message }

const upstreamReasonStatus = "status"

// UpstreamError is a completion response the client could not use: either a
// non-success status or a body without a textual first choice.
type UpstreamError struct {
	StatusCode int // zero for parse failures
	Reason     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	if e.IsStatus() {
		return fmt.Sprintf("upstream rejected request: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream response unusable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("upstream response unusable: %s", e.Reason)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsStatus distinguishes rejected requests from unusable response bodies.
func (e *UpstreamError) IsStatus() bool {
	return e.StatusCode != 0 || e.Reason == upstreamReasonStatus
}

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("upstream transport failed: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }
