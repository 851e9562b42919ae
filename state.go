package distributor

import "fmt"

// State is the lifecycle position of a Distributor.
//
//	Uninitialized -> Initialized -> Running -> Completed
//	                                        -> Failed
//
// Failed is also entered when Run is called before Initialize. Completed and Failed are terminal.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateCompleted || s == StateFailed }
