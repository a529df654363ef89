package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlugin is reported when use receives something that is neither
	// a plugin nor a list of plugins.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrPluginPanic marks a failure recovered from a panicking plugin.
	ErrPluginPanic = errors.New("plugin panicked")

	// ErrNoRunner is returned when run is called on a host without a run method.
	ErrNoRunner = errors.New("host has no run method")

	// ErrPluginNotFound is returned when a named plugin factory is unknown.
	ErrPluginNotFound = errors.New("plugin not found")
)

// Stage identifies where a contained failure happened.
type Stage string

const (
	StageUse     Stage = "use"
	StageRun     Stage = "run"
	StageOptions Stage = "options"
)

// PluginError is the payload emitted on the error channel for a contained failure.
type PluginError struct {
	Stage Stage
	// Index is the position inside a plugin list, or -1 for single calls.
	Index int
	// Name is a best-effort identifier for the plugin (function name).
	Name string
	Err  error
}

func (e *PluginError) Error() string {
	subject := string(e.Stage)
	if e.Name != "" {
		subject += " " + e.Name
	}
	if e.Index >= 0 {
		subject = fmt.Sprintf("%s [%d]", subject, e.Index)
	}
	return fmt.Sprintf("%s: %v", subject, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return fmt.Sprintf("%v: %v", ErrPluginPanic, err)
	}
	return fmt.Sprintf("%v: %v", ErrPluginPanic, e.Value)
}

// Is makes errors.Is(err, ErrPluginPanic) hold for every PanicError.
func (e *PanicError) Is(target error) bool {
	return target == ErrPluginPanic
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
