package backend

import (
	"errors"
	"fmt"

	"github.com/celosave/savings/internal/model"
)

var (
	ErrBackendNotConfigured = errors.New("backend not configured")
	ErrGoalNotFound         = errors.New("goal not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrTransportFailure     = errors.New("transport failure")
	ErrApprovalFailed       = errors.New("token approval failed")
	ErrGoalConflict         = errors.New("goal changed concurrently")
	ErrAmbiguousGoal        = errors.New("goal id matches more than one record")
	ErrCallerMismatch       = errors.New("caller is not the configured signer")
	ErrNoOwner              = errors.New("no owner address")
)

// Error carries the backend that produced Err so callers can choose a recovery path.
type Error struct {
	Mode model.Mode
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s backend: %s: %v", e.Mode, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(mode model.Mode, op string, err error) error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return err
	}
	return &Error{Mode: mode, Op: op, Err: err}
}

func transport(err error) error {
	return fmt.Errorf("%w: %w", ErrTransportFailure, err)
}
