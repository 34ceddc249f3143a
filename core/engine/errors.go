package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistrySealed is returned when Register is called after Seal.
	ErrRegistrySealed = errors.New("engine: registry sealed")
	// ErrInvalidState is returned for a registration with an empty name.
	ErrInvalidState = errors.New("engine: invalid state registration")
)

// UnknownStateError reports a state name absent from the registry.
// It is fatal for the step that hit it: a dangling transition target
// indicates a broken conversation graph and must not be coerced to a default.
type UnknownStateError struct {
	Name StateName
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("engine: unknown state %q", string(e.Name))
}

// Code identifies the error class in handler summary logs.
func (e *UnknownStateError) Code() string { return "UNKNOWN_STATE" }
