package command

import "errors"

var (
	// ErrAlreadyStarted indicates Start on a runner that has left Idle.
	ErrAlreadyStarted = errors.New("command: already started")

	// ErrNotRunning indicates Tick or Cancel on a runner that was never started.
	ErrNotRunning = errors.New("command: not running")

	// ErrTerminal indicates use of a runner after Finished or Interrupted.
	ErrTerminal = errors.New("command: instance is terminal and cannot be reused")
)

// LifecycleError records which command misused the lifecycle.
type LifecycleError struct {
	Command string
	State   State
	Wrapped error
}

func (e *LifecycleError) Error() string {
	return e.Command + " (" + e.State.String() + "): " + e.Wrapped.Error()
}

func (e *LifecycleError) Unwrap() error {
	return e.Wrapped
}
