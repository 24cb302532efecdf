package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflicting state")
	ErrAuthenticity  = errors.New("signature mismatch")
)

// StateConflictError reports an illegal manual transition attempt together
// with the current order status so callers can present an accurate message.
type StateConflictError struct {
	OrderCode     string
	CurrentStatus string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("order %s is in status %s", e.OrderCode, e.CurrentStatus)
}

// Is makes the error match ErrConflict under errors.Is.
func (e *StateConflictError) Is(target error) bool {
	return target == ErrConflict
}
