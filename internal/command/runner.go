package command

// Runner drives one Command instance through its lifecycle. A Runner is
// single use: once terminal it rejects every further call.
type Runner struct {
	cmd   Command
	state State
	ticks int
}

func NewRunner(c Command) *Runner {
	return &Runner{cmd: c}
}

func (r *Runner) Command() Command { return r.cmd }
func (r *Runner) State() State     { return r.state }

// Ticks counts Execute calls so far.
func (r *Runner) Ticks() int { return r.ticks }

func (r *Runner) fail(err error) error {
	return &LifecycleError{Command: NameOf(r.cmd), State: r.state, Wrapped: err}
}

// Start calls Initialize and moves to Running.
func (r *Runner) Start() error {
	switch {
	case r.state.Terminal():
		return r.fail(ErrTerminal)
	case r.state != StateIdle:
		return r.fail(ErrAlreadyStarted)
	}
	r.state = StateRunning
	r.cmd.Initialize()
	return nil
}

// Tick runs one Execute/IsFinished cycle. When the command reports finished
// End is called and done is true.
func (r *Runner) Tick() (done bool, err error) {
	switch {
	case r.state.Terminal():
		return true, r.fail(ErrTerminal)
	case r.state != StateRunning:
		return false, r.fail(ErrNotRunning)
	}

	r.cmd.Execute()
	r.ticks++

	if r.cmd.IsFinished() {
		r.state = StateFinished
		r.cmd.End()
		return true, nil
	}
	return false, nil
}

// Cancel interrupts a running command.
func (r *Runner) Cancel() error {
	switch {
	case r.state.Terminal():
		return r.fail(ErrTerminal)
	case r.state != StateRunning:
		return r.fail(ErrNotRunning)
	}
	r.state = StateInterrupted
	r.cmd.Interrupted()
	return nil
}
