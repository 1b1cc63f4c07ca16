// Package tetriserr defines the structured error kinds used across the
// engine: Validation, Logic, Cancellation and Resource, per the error
// handling design. Cancellation is deliberately not constructed by this
// package as an error value — it is represented elsewhere as a Stopped
// status, never surfaced via the error interface.
package tetriserr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies why an operation failed.
type Kind uint8

const (
	// Validation marks an invalid argument: out-of-range depth/width/worker
	// count, negative grid dimensions, and similar caller mistakes.
	Validation Kind = iota
	// Logic marks an internal inconsistency detected at runtime: a fan-out
	// that produced zero children on a non-game-over state, a spliced node
	// with the wrong depth, a carve target that isn't a descendant.
	Logic
	// Resource marks an inability to acquire or release a shared resource,
	// such as a worker pool that cannot be constructed.
	Resource
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Logic:
		return "logic"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is a structured, wrapped error carrying its Kind alongside a
// human-readable message and an optional underlying cause.
type Error struct {
	Kind    Kind
	Op      string // component/operation that raised the error, e.g. "NodeCalculator.Start"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a structured error with no underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds a structured error around an existing cause, annotating it
// with errors.WithMessage so the original stack trace (if any) survives.
func Wrap(kind Kind, op string, cause error, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: pkgerrors.WithMessage(cause, message)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}
