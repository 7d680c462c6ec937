package machine

import "fmt"

// ErrorKind classifies the ways a running program can fault.
type ErrorKind int

const (
	ErrEmptyHands ErrorKind = iota
	ErrTileEmpty
	ErrTypeMismatch
	ErrOverflow
	ErrInvalidAddress
	ErrStepLimitExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case ErrEmptyHands:
		return "EmptyHands"
	case ErrTileEmpty:
		return "TileEmpty"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrOverflow:
		return "Overflow"
	case ErrInvalidAddress:
		return "InvalidAddress"
	case ErrStepLimitExceeded:
		return "StepLimitExceeded"
	default:
		return fmt.Sprintf("unknown_error_%d", int(k))
	}
}

// RuntimeError pins a fault to the instruction that raised it and the
// 1-based step at which it was executing. Execution halts on the first
// fault; a RuntimeError is the run's verdict, never a panic.
type RuntimeError struct {
	Kind        ErrorKind
	Instruction int
	Step        int
	Message     string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("step %d, instruction %d: %s: %s", e.Step, e.Instruction, e.Kind, e.Message)
}
