package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// StatusTransitionError reports a status change the store refused or failed to apply.
type StatusTransitionError struct {
	OrderID uint
	From    Status
	To      Status
	Err     error
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("order %d: cannot change status from %q to %q: %v", e.OrderID, e.From, e.To, e.Err)
}

func (e *StatusTransitionError) Unwrap() error {
	return e.Err
}
