// Package engine provides the agent step loop and its conversation model.
// This file contains the error taxonomy of the loop.

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// agent's current state, such as running an agent that is not idle.
	ErrInvalidState = errors.New("invalid agent state")

	// ErrInvalidArgument is returned for rejected inputs: non-positive
	// limits, negative counts, empty names.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidMessage marks a message that cannot cross a serialization
	// boundary. It matches ErrInvalidArgument as well.
	ErrInvalidMessage = fmt.Errorf("%w: invalid message", ErrInvalidArgument)

	// ErrExecution matches every *ExecutionError.
	ErrExecution = errors.New("agent execution failed")
)

// ExecutionError wraps a failure raised inside a step.
type ExecutionError struct {
	Agent string
	Step  int
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("[agent=%s step=%d] %v: %v", e.Agent, e.Step, ErrExecution, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrExecution) match without losing the cause chain.
func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

// PanicError carries a value recovered from a panicking step.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("step panicked: %v", e.Value) }

func invalidState(s AgentState) error {
	return fmt.Errorf("%w: cannot run agent from state %s", ErrInvalidState, s)
}
