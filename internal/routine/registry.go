package routine

import (
	"fmt"
	"sort"

	"github.com/san-kum/autodrive/internal/command"
)

// Builder turns one step into a command bound to env.
type Builder func(env *Env, step Step) (command.Command, error)

type Registry struct {
	steps map[string]Builder
}

// NewRegistry returns a registry holding every built-in step type.
func NewRegistry() *Registry {
	r := &Registry{steps: make(map[string]Builder)}

	r.Register("drive", buildDrive)
	r.Register("tank", buildTank)
	r.Register("hold_encoders", buildHoldEncoders)
	r.Register("turn", buildTurn)
	r.Register("store_heading", buildStoreHeading)
	r.Register("recall_heading", buildRecallHeading)
	r.Register("turn_align", buildTurnAlign)
	r.Register("strafe_align", buildStrafeAlign)
	r.Register("drive_to_target", buildDriveToTarget)
	r.Register("wait_ticks", buildWaitTicks)
	r.Register("wait", buildWait)
	r.Register("gear_wait", buildGearWait)
	r.Register("calibrate", buildCalibrate)

	return r
}

// Register adds or replaces a step type.
func (r *Registry) Register(name string, b Builder) {
	r.steps[name] = b
}

func (r *Registry) Step(env *Env, step Step) (command.Command, error) {
	b, ok := r.steps[step.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, step.Type)
	}
	return b(env, step)
}

// Build compiles a routine into a single sequence. The first failing step
// aborts the build.
func (r *Registry) Build(env *Env, rt *Routine) (*command.Sequence, error) {
	seq := command.NewSequence(rt.Name)
	for i, step := range rt.Steps {
		c, err := r.Step(env, step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		seq.Add(c)
	}
	return seq, nil
}

func (r *Registry) ListSteps() []string {
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
