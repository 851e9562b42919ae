package distributor

import (
	"errors"
	"fmt"
	"time"
)

const Namespace = "distributor"

var (
	ErrIllegalState  = errors.New(Namespace + ": illegal state")
	ErrTimeout       = errors.New(Namespace + ": timed out while offering")
	ErrInterrupted   = errors.New(Namespace + ": admission interrupted")
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	ErrHandlerPanicked = errors.New(Namespace + ": consumer handler panicked")
)

// TimeoutError reports an admission that did not complete within the configured wait.
// It matches ErrTimeout with errors.Is.
type TimeoutError struct {
	Wait time.Duration
	// Index is the position of the value in admission order, markers included.
	Index  int
	ItemID string
	Marker bool
}

func (e *TimeoutError) Error() string {
	if e.Marker {
		return fmt.Sprintf("%s after %v (termination marker, index=%d)", ErrTimeout, e.Wait, e.Index)
	}
	return fmt.Sprintf("%s after %v (item index=%d, id=%q)", ErrTimeout, e.Wait, e.Index, e.ItemID)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

func illegalState(msg string) error {
	return fmt.Errorf("%w: %s", ErrIllegalState, msg)
}
