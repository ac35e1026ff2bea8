package servo

import (
	"math"

	"github.com/san-kum/autodrive/internal/control"
	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/vision"
)

// StrafeAlign slides sideways until the target is centred, holding the
// heading captured at Initialize. The robot should already roughly face
// the target. Without a heading reading at Initialize it retries each tick
// and sends nothing until one arrives.
//
// The computed speed is never positive: -|x - 0.5| * Gain, aimed at
// DirLeft for a target right of centre and DirRight for one left of
// centre. Sent through drive.Polar, that moves the robot toward the
// target.
type StrafeAlign struct {
	Source    vision.Source
	Width     float64
	Law       control.PowerLaw
	Tolerance float64
	Sink      monitoring.Sink
	LostAfter int

	hold      *drive.HeadingHold
	zeroed    bool
	last      sample
	speed     float64
	direction float64
	misses    *monitoring.MissTracker
}

func NewStrafeAlign(d drive.Interface, sensor drive.HeadingSensor, src vision.Source) *StrafeAlign {
	hold := drive.NewHeadingHold(d, sensor)
	hold.Source = "strafe_align"
	return &StrafeAlign{
		Source:    src,
		Width:     vision.FrameWidth,
		Law:       control.PowerLaw{Exponent: 1.0, Gain: 0.3},
		Tolerance: 0.01,
		hold:      hold,
	}
}

func (c *StrafeAlign) Name() string { return "strafe_align" }

func (c *StrafeAlign) Hold() *drive.HeadingHold { return c.hold }

func (c *StrafeAlign) Initialize() {
	c.last = sample{}
	c.speed, c.direction = 0, 0
	c.hold.Sink = c.Sink
	c.misses = newTracker(c.Name(), c.LostAfter, c.Sink)
	c.zeroed = c.hold.Zero() == nil
}

func (c *StrafeAlign) Execute() {
	if !c.zeroed {
		if c.zeroed = c.hold.Zero() == nil; !c.zeroed {
			return
		}
	}
	c.last = readX(c.Source, c.Width)
	if !c.last.seen {
		c.misses.Miss()
		return
	}
	c.misses.Hit()

	off := c.last.x - Centre
	c.speed = -c.Law.Magnitude(off)
	switch {
	case off > 0:
		c.direction = drive.DirLeft
	case off < 0:
		c.direction = drive.DirRight
	default:
		// centred: stop sliding but keep correcting yaw
		c.speed = 0
		_ = c.hold.Hold(drive.Neutral, drive.ModeDefault)
		return
	}
	_ = c.hold.Hold(drive.Polar(c.speed, c.direction, 0), drive.ModeDefault)
}

func (c *StrafeAlign) IsFinished() bool {
	return c.zeroed && c.last.seen && math.Abs(c.last.x-Centre) <= c.Tolerance && c.hold.IsAligned()
}

// End and Interrupted bypass the heading correction so the robot does not
// keep sliding.
func (c *StrafeAlign) End()         { c.hold.Stop() }
func (c *StrafeAlign) Interrupted() { c.hold.Stop() }

// Zeroed reports whether the heading origin was captured this run.
func (c *StrafeAlign) Zeroed() bool { return c.zeroed }

func (c *StrafeAlign) TargetX() (float64, bool) { return c.last.x, c.last.seen }

// Setpoint returns the signed speed and direction computed on the last
// tick that saw the target.
func (c *StrafeAlign) Setpoint() (speed, direction float64) { return c.speed, c.direction }
