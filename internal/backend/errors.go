package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// PreconditionError marks a call that was rejected before any network I/O,
// such as a user-scoped fetch without a session identity.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// NetworkError marks a transport-level failure. Timeout distinguishes
// "request timed out" from "server unreachable" so the two get distinct
// user-facing messages.
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("server unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError marks a non-2xx backend response. Message carries the
// server-provided error text when present.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// ValidationError marks a client-side required-field failure caught before
// submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// classify maps a transport error onto the taxonomy. Context cancellation
// passes through untouched so callers can tell a torn-down surface apart
// from a backend failure.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &NetworkError{Timeout: true, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Timeout: true, Err: err}
	}
	return &NetworkError{Err: err}
}
