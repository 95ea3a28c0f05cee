package arena

import (
	"errors"
	"fmt"
)

// ValidationError rejects a command because of its input or the caller's
// balance. Nothing was changed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ConflictError rejects a command because of the caller's current state.
// Nothing was changed.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// LedgerError reports a ledger call that failed after its retry.
// In-memory state is not rolled back.
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

var (
	ErrInvalidStake         = &ValidationError{Reason: "stake must be a positive number of points"}
	ErrInsufficientBalance  = &ValidationError{Reason: "insufficient balance"}
	ErrAlreadyParticipating = &ConflictError{Reason: "already queued, matched or fighting"}
	ErrNoPendingGame        = &ConflictError{Reason: "no pending game to start"}
	// ErrStaleOpponent means the lobby opponent's profile vanished before
	// pairing. The caller's escrow was refunded.
	ErrStaleOpponent = errors.New("opponent is no longer available")
	ErrClosed        = errors.New("arena is closed")
)

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsLedger(err error) bool {
	var target *LedgerError
	return errors.As(err, &target)
}
