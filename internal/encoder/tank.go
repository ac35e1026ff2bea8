// Package encoder moves a four-wheel skid chassis by dead reckoning on the
// wheel encoders alone.
package encoder

import (
	"github.com/san-kum/autodrive/internal/control"
	"github.com/san-kum/autodrive/internal/drive"
)

// DefaultSpeed is the ramp cap in encoder ticks per scheduler tick.
const DefaultSpeed = 400.0

// TankCommand drives every wheel to an absolute encoder target with a
// velocity-capped ramp. Right-side wheels move +Ticks and left-side wheels
// -Ticks, which traverses the chassis straight for mirrored motors.
//
// The command completes only when all four wheels are within one ramp step
// of target. A wheel that can never get there (jammed, unplugged) keeps the
// command running forever; supervision belongs to the caller.
type TankCommand struct {
	wheels drive.PerWheel[drive.Actuator]
	ramp   control.Ramp
	ticks  float64

	targets  drive.PerWheel[float64]
	finished drive.PerWheel[bool]
}

func NewTankCommand(wheels drive.PerWheel[drive.Actuator], speed, ticks float64) *TankCommand {
	return &TankCommand{
		wheels: wheels,
		ramp:   control.Ramp{Step: speed},
		ticks:  ticks,
	}
}

func (c *TankCommand) Name() string { return "tank_drive" }

func (c *TankCommand) Speed() float64 { return c.ramp.Step }

func (c *TankCommand) Ticks() float64 { return c.ticks }

func (c *TankCommand) Initialize() {
	c.finished = drive.PerWheel[bool]{}
	for i, m := range c.wheels {
		m.SetControlMode(drive.ControlPosition)
		offset := -c.ticks
		if drive.Wheel(i).RightSide() {
			offset = c.ticks
		}
		c.targets[i] = m.Position() + offset
	}
}

func (c *TankCommand) Execute() {
	for i, m := range c.wheels {
		setpoint, reached := c.ramp.Next(m.Position(), c.targets[i])
		m.Set(setpoint)
		if reached {
			c.finished[i] = true
		}
	}
}

func (c *TankCommand) IsFinished() bool {
	for _, f := range c.finished {
		if !f {
			return false
		}
	}
	return true
}

// End holds the final targets; the position loops keep the chassis there.
func (c *TankCommand) End() {
	for i, m := range c.wheels {
		m.Set(c.targets[i])
	}
}

// Interrupted freezes every wheel where it stands.
func (c *TankCommand) Interrupted() {
	for _, m := range c.wheels {
		m.Set(m.Position())
	}
}

// Targets returns the absolute targets captured at Initialize.
func (c *TankCommand) Targets() drive.PerWheel[float64] { return c.targets }

// WheelFinished reports the per-wheel completion latch.
func (c *TankCommand) WheelFinished() drive.PerWheel[bool] { return c.finished }
