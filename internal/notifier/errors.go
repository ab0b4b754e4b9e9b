package notifier

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced accident, camera or contact does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmptyAddress rejects contact registration with a blank address.
	ErrEmptyAddress = errors.New("contact address is required")

	// ErrInvalidAction means a callback carried an action other than handle/reject.
	ErrInvalidAction = errors.New("invalid action")
)

// AlreadyHandledError is returned to a claimer that lost the race. It names
// the winner so the caller can be told who took the accident.
type AlreadyHandledError struct {
	Handler string
}

func (e *AlreadyHandledError) Error() string {
	return fmt.Sprintf("accident already handled by %s", e.Handler)
}
