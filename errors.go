package fsmx

import "errors"

// Sentinel errors returned by registry and lifecycle operations. Callers can
// test for them with errors.Is; returned errors may wrap these with context
// such as the offending state name.
var (
	// ErrEmptyStateName is returned when a state or transition endpoint is
	// registered with an empty name.
	ErrEmptyStateName = errors.New("empty state name")

	// ErrDuplicateState is returned when a state with the same name is
	// already registered.
	ErrDuplicateState = errors.New("duplicate state")

	// ErrUnknownState is returned when an operation references a state name
	// that has not been registered.
	ErrUnknownState = errors.New("unknown state")

	// ErrNilPredicate is returned when a predicate group contains a nil
	// predicate.
	ErrNilPredicate = errors.New("nil predicate")

	// ErrNoStates is returned by Start when the machine has no registered
	// states.
	ErrNoStates = errors.New("no states registered")

	// ErrNotRunning is returned by Step when the machine is stopped or has
	// no established current state.
	ErrNotRunning = errors.New("machine not running")

	// ErrDescriptorCopy is returned when a state or transition descriptor
	// could not be copied into the registry. The registry is left unchanged.
	ErrDescriptorCopy = errors.New("descriptor copy failed")
)
