package ledger

import (
	"errors"
	"fmt"
)

// InsufficientFundsError reports a balance adjustment that would drop
// the balance below its floor. Nothing was mutated.
type InsufficientFundsError struct {
	UserID  string
	Balance int64
	Needed  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: has %d, needs %d", e.Balance, e.Needed)
}

// NotFoundError reports a missing or not-owned ledger entity.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", e.Entity, e.ID)
}

// ConflictError reports a serialization or write conflict with a
// concurrent transaction. The operation was rolled back and may be
// resubmitted by the caller.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent modification conflict: %v", e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// UnavailableError reports that the store could not complete the
// operation in time. The in-flight transaction was rolled back.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("ledger store unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
