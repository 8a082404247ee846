// Package apperr defines the application error taxonomy. Store adapters
// translate backend failures into these kinds exactly once; services and
// handlers only ever inspect the kind.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers.
type Kind int

const (
	Unknown Kind = iota
	// NotFound: the referenced entity is absent or not owned by the caller.
	NotFound
	// InvalidInput: the request was rejected before any store call.
	InvalidInput
	// Conflict: a store-level precondition or transaction clash; the whole
	// operation is safe to retry from scratch.
	Conflict
	// Throughput: transient capacity limit; retry with backoff.
	Throughput
	// Unavailable: the store failed in a way that is fatal for this request.
	Unavailable
	// Unauthorized: no verified principal.
	Unauthorized
	// NotImplemented: the operation is deliberately unsupported.
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case Throughput:
		return "throughput_exceeded"
	case Unavailable:
		return "store_unavailable"
	case Unauthorized:
		return "unauthorized"
	case NotImplemented:
		return "not_implemented"
	}
	return "unknown"
}

// Error pairs a kind with a message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the failed operation may be retried as a whole.
// Only conflict and throughput failures qualify; everything else is either
// final or of unknown outcome.
func Retryable(err error) bool {
	k := KindOf(err)
	return k == Conflict || k == Throughput
}
