package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Signal tags failures that are expected while the PSP replays notifications.
type Signal int

const (
	SignalNone Signal = iota
	// SignalUnknownTransaction: the PSP does not know the id (yet).
	SignalUnknownTransaction
	// SignalAlreadyFinalized: the state change was already processed.
	SignalAlreadyFinalized
)

func (s Signal) String() string {
	switch s {
	case SignalUnknownTransaction:
		return "unknown_transaction"
	case SignalAlreadyFinalized:
		return "already_finalized"
	default:
		return "none"
	}
}

type signaler interface {
	Signal() Signal
}

// SignalOf returns the non-fatal signal carried by err, or SignalNone.
func SignalOf(err error) Signal {
	var s signaler
	if errors.As(err, &s) {
		return s.Signal()
	}
	return SignalNone
}

// PSPErrorKind classifies PSP client failures.
type PSPErrorKind int

const (
	PSPErrorTransient PSPErrorKind = iota
	PSPErrorNotFound
	PSPErrorAlreadyFinalized
	PSPErrorRejected
)

// PSPError is returned by PSP client implementations.
type PSPError struct {
	Kind          PSPErrorKind
	TransactionID string
	Message       string
	Err           error
}

func (e *PSPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("psp transaction %s: %s: %v", e.TransactionID, e.Message, e.Err)
	}
	return fmt.Sprintf("psp transaction %s: %s", e.TransactionID, e.Message)
}

func (e *PSPError) Unwrap() error {
	return e.Err
}

// Signal implements the non-fatal signal lookup used by SignalOf.
func (e *PSPError) Signal() Signal {
	switch e.Kind {
	case PSPErrorNotFound:
		return SignalUnknownTransaction
	case PSPErrorAlreadyFinalized:
		return SignalAlreadyFinalized
	default:
		return SignalNone
	}
}

// Temporary reports whether retrying the same call may succeed.
func (e *PSPError) Temporary() bool {
	return e.Kind == PSPErrorTransient
}

// TransitionError is returned by order state drivers.
type TransitionError struct {
	OrderTransactionID uuid.UUID
	Transition         Transition
	Illegal            bool // not allowed from the current order state
	AlreadyApplied     bool // order already in the target state
	Reason             string
	Err                error
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("transition %q on order transaction %s", e.Transition, e.OrderTransactionID)
	switch {
	case e.AlreadyApplied:
		msg += " already applied"
	case e.Illegal:
		msg += " is illegal"
	default:
		msg += " failed"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Signal implements the non-fatal signal lookup used by SignalOf.
func (e *TransitionError) Signal() Signal {
	if e.AlreadyApplied {
		return SignalAlreadyFinalized
	}
	return SignalNone
}
