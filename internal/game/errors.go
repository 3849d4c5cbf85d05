package game

import (
	"errors"
	"fmt"
)

// Recoverable errors. The caller shows them to the player and may retry; the
// session is left exactly as it was.
var (
	ErrInvalidBet        = errors.New("invalid bet")
	ErrInvalidName       = errors.New("invalid player name")
	ErrBetExceedsBalance = errors.New("bet exceeds balance")
	ErrIllegalAction     = errors.New("action not allowed in current status")
	ErrOutOfFunds        = errors.New("player is out of funds")
)

// Invariant violations. These are defects, never the result of player input,
// and the action that produced one must not be persisted.
var (
	ErrUnknownStatus   = errors.New("unknown status")
	ErrNegativeBalance = errors.New("negative balance")
	ErrEmptyHand       = errors.New("hand has no cards")
	ErrCorruptSession  = errors.New("corrupt session")
)

// ValidationError carries the message shown to the player alongside the
// sentinel it wraps.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Message: fmt.Sprintf(format, args...)}
}

// Fault reports an invariant violation observed while applying Op.
type Fault struct {
	Op  string
	Err error
}

func (f *Fault) Error() string { return fmt.Sprintf("%s: %v", f.Op, f.Err) }
func (f *Fault) Unwrap() error { return f.Err }

func fault(op string, err error) error {
	var f *Fault
	if errors.As(err, &f) {
		return err
	}
	return &Fault{Op: op, Err: err}
}

// IsFault reports whether err is an invariant violation rather than a
// recoverable condition.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

// IsValidation reports whether err is a user input error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
