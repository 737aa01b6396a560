package actor

import "fmt"

// ClosedError reports that the actor's mailbox stopped accepting sends, or
// that a reply slot was discarded without ever being fulfilled.
type ClosedError struct {
	Cause error
}

// Error implements the error interface.
func (e *ClosedError) Error() string {
	if e.Cause == nil {
		return "actor: closed"
	}
	return fmt.Sprintf("actor: closed: %v", e.Cause)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *ClosedError) Unwrap() error {
	return e.Cause
}

// ErrClosed is the zero-cause ClosedError returned when no more specific
// cause is known.
var ErrClosed = &ClosedError{}

// SendTimeoutError reports that enqueueing onto the mailbox did not
// complete before a [MessageRequest]'s send-phase timeout elapsed.
type SendTimeoutError struct {
	Message string
}

// Error implements the error interface.
func (e *SendTimeoutError) Error() string {
	if e.Message == "" {
		return "actor: send timeout"
	}
	return e.Message
}

// ReceiveTimeoutError reports that a handler's reply did not arrive before
// a [MessageRequest]'s response-phase timeout elapsed.
type ReceiveTimeoutError struct {
	Message string
}

// Error implements the error interface.
func (e *ReceiveTimeoutError) Error() string {
	if e.Message == "" {
		return "actor: receive timeout"
	}
	return e.Message
}

// TimeoutError is an alias for ReceiveTimeoutError, kept for callers that
// predate the send/receive timeout split.
type TimeoutError = ReceiveTimeoutError

// WrapError wraps an error with a message, preserving the cause chain.
//
// The result satisfies errors.Is(result, cause) == true.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
