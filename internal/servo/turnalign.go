package servo

import (
	"math"

	"github.com/san-kum/autodrive/internal/control"
	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/vision"
)

// TurnAlign rotates in place until the target is horizontally centred.
type TurnAlign struct {
	Drive     drive.Interface
	Source    vision.Source
	Width     float64
	Law       control.PowerLaw
	Tolerance float64
	Sink      monitoring.Sink
	LostAfter int

	last   sample
	misses *monitoring.MissTracker
}

func NewTurnAlign(d drive.Interface, src vision.Source) *TurnAlign {
	return &TurnAlign{
		Drive:     d,
		Source:    src,
		Width:     vision.FrameWidth,
		Law:       control.PowerLaw{Exponent: 0.6, Gain: 8},
		Tolerance: 0.02,
	}
}

func (c *TurnAlign) Name() string { return "turn_align" }

func (c *TurnAlign) Initialize() {
	c.last = sample{}
	c.misses = newTracker(c.Name(), c.LostAfter, c.Sink)
}

func (c *TurnAlign) Execute() {
	c.last = readX(c.Source, c.Width)
	if !c.last.seen {
		c.misses.Miss()
		return
	}
	c.misses.Hit()
	// target right of centre turns clockwise
	turn := -c.Law.Signed(c.last.x - Centre)
	c.Drive.Drive(drive.Rotate(turn), drive.ModeDefault)
}

func (c *TurnAlign) IsFinished() bool {
	return c.last.seen && math.Abs(c.last.x-Centre) <= c.Tolerance
}

func (c *TurnAlign) End()         { c.Drive.Drive(drive.Neutral, drive.ModeDefault) }
func (c *TurnAlign) Interrupted() { c.Drive.Drive(drive.Neutral, drive.ModeDefault) }

// TargetX returns the target x seen on the last tick.
func (c *TurnAlign) TargetX() (float64, bool) { return c.last.x, c.last.seen }
