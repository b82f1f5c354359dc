package lua

import "errors"

// Errors for Lua script execution.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrScript wraps every failure of a provider script.
	ErrScript = errors.New("lua script failed")
)
