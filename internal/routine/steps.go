package routine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/autodrive/internal/command"
	"github.com/san-kum/autodrive/internal/control"
	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/encoder"
	"github.com/san-kum/autodrive/internal/heading"
	"github.com/san-kum/autodrive/internal/servo"
	"github.com/san-kum/autodrive/internal/vision"
)

var ErrInvalidStep = errors.New("routine: invalid step")

// DefaultGearVoltage is the proximity reading below which a gear counts as
// taken off the peg.
const DefaultGearVoltage = 2.0

// Step params named "law.<Name>" set a parameter of the command's control
// law, e.g. "law.Gain".
const lawPrefix = "law."

func tuneLaw(law control.Tunable, step Step) error {
	known := law.GetParams()
	for name, v := range step.Params {
		p, ok := strings.CutPrefix(name, lawPrefix)
		if !ok {
			continue
		}
		if _, ok := known[p]; !ok {
			return fmt.Errorf("%w: %s has no law parameter %q", ErrInvalidStep, step.Type, p)
		}
		law.SetParam(p, v)
	}
	return nil
}

func (e *Env) movement() (*encoder.FieldMovement, error) {
	fm, err := encoder.NewFieldMovement(e.Robot.Wheels(), e.Config.Robot.TicksPerRotation, e.Config.Robot.WheelCircumference)
	if err != nil {
		return nil, err
	}
	fm.DefaultSpeed = e.Config.Encoder.DefaultSpeed
	fm.Invert = e.Config.Encoder.Invert
	return fm, nil
}

// drive: params distance (inches), speed (ticks per tick, optional).
func buildDrive(env *Env, step Step) (command.Command, error) {
	fm, err := env.movement()
	if err != nil {
		return nil, err
	}
	return fm.DriveCommand(step.Param("distance", 0), step.Param("speed", 0)), nil
}

// tank: raw encoder ticks, no unit conversion.
func buildTank(env *Env, step Step) (command.Command, error) {
	speed := step.Param("speed", env.Config.Encoder.DefaultSpeed)
	if speed <= 0 {
		return nil, fmt.Errorf("%w: tank speed %v", ErrInvalidStep, speed)
	}
	return encoder.NewTankCommand(env.Robot.Wheels(), speed, step.Param("ticks", 0)), nil
}

func buildHoldEncoders(env *Env, _ Step) (command.Command, error) {
	fm, err := env.movement()
	if err != nil {
		return nil, err
	}
	return fm.HoldCommand(), nil
}

// turn: params degrees, counter-clockwise positive.
func buildTurn(env *Env, step Step) (command.Command, error) {
	t := heading.NewTurnByAngle(env.Robot, env.Robot.Heading(), drive.Radians(step.Param("degrees", 0)))
	env.tune(t.Hold())
	return t, nil
}

func slotOf(env *Env, step Step) (*heading.Slot, error) {
	if step.Slot == "" {
		return nil, fmt.Errorf("%w: %s needs a slot", ErrInvalidStep, step.Type)
	}
	return env.Slots.Get(step.Slot), nil
}

func buildStoreHeading(env *Env, step Step) (command.Command, error) {
	slot, err := slotOf(env, step)
	if err != nil {
		return nil, err
	}
	return heading.NewStoreHeading(env.Robot.Heading(), slot), nil
}

func buildRecallHeading(env *Env, step Step) (command.Command, error) {
	slot, err := slotOf(env, step)
	if err != nil {
		return nil, err
	}
	r := heading.NewRecallHeading(env.Robot, env.Robot.Heading(), slot)
	env.tune(r.Hold())
	return r, nil
}

// turn_align: params tolerance (normalized x, optional), law.*.
func buildTurnAlign(env *Env, step Step) (command.Command, error) {
	c := servo.NewTurnAlign(env.Robot, env.Robot)
	c.Width = env.Config.Vision.FrameWidth
	c.Tolerance = step.Param("tolerance", c.Tolerance)
	c.Sink = env.Sink
	c.LostAfter = env.Config.Servo.LostThreshold
	if err := tuneLaw(&c.Law, step); err != nil {
		return nil, err
	}
	return c, nil
}

func buildStrafeAlign(env *Env, step Step) (command.Command, error) {
	c := servo.NewStrafeAlign(env.Robot, env.Robot.Heading(), env.Robot)
	env.tune(c.Hold())
	c.Width = env.Config.Vision.FrameWidth
	c.Tolerance = step.Param("tolerance", c.Tolerance)
	c.Sink = env.Sink
	c.LostAfter = env.Config.Servo.LostThreshold
	if err := tuneLaw(&c.Law, step); err != nil {
		return nil, err
	}
	return c, nil
}

// drive_to_target: params buffer (inches, optional), law.*.
func buildDriveToTarget(env *Env, step Step) (command.Command, error) {
	buffer := step.Param("buffer", env.Config.Servo.Buffer)
	if buffer < 0 {
		return nil, fmt.Errorf("%w: negative buffer %v", ErrInvalidStep, buffer)
	}
	c := servo.NewDriveToTargetDistance(env.Robot, env.Robot.Heading(), env.Robot, buffer)
	env.tune(c.Hold())
	c.Model = env.Model()
	c.Tolerance = env.Config.Servo.RangeTolerance
	c.Sink = env.Sink
	c.LostAfter = env.Config.Servo.LostThreshold
	if err := tuneLaw(&c.Law, step); err != nil {
		return nil, err
	}
	return c, nil
}

func buildWaitTicks(_ *Env, step Step) (command.Command, error) {
	n := step.Param("ticks", 0)
	if n < 0 {
		return nil, fmt.Errorf("%w: negative tick count %v", ErrInvalidStep, n)
	}
	return command.NewWaitTicks(int(n)), nil
}

// wait: params seconds, rounded to whole ticks at the configured dt.
func buildWait(env *Env, step Step) (command.Command, error) {
	s := step.Param("seconds", 0)
	if s < 0 {
		return nil, fmt.Errorf("%w: negative wait %v", ErrInvalidStep, s)
	}
	return command.NewWaitTicks(int(math.Round(s / env.Config.Dt))), nil
}

// gear_wait: finishes once the proximity sensor reads below volts.
func buildGearWait(env *Env, step Step) (command.Command, error) {
	volts := step.Param("volts", DefaultGearVoltage)
	robot := env.Robot
	return command.NewWaitUntil("gear_wait", func() bool {
		return robot.ProximityVoltage() < volts
	}), nil
}

// calibrate: params samples (optional).
func buildCalibrate(env *Env, step Step) (command.Command, error) {
	c := vision.NewCalibration(env.Robot, int(step.Param("samples", 0)))
	c.Sink = env.Sink
	return c, nil
}
