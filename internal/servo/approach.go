package servo

import (
	"math"

	"github.com/san-kum/autodrive/internal/control"
	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/vision"
)

const (
	// DefaultBuffer is the stand-off range from the peg, in inches.
	DefaultBuffer = 21.0
	// DefaultRangeTolerance is how close to Buffer counts as arrived.
	DefaultRangeTolerance = 1.0
)

// DriveToTargetDistance approaches a two-post target until it is Buffer
// away, holding heading. Range comes from the pixel separation of the two
// largest contours. Speed follows an exponential approach: it saturates
// at Law.Gain far out and reverses once inside Buffer.
//
// Like StrafeAlign it waits for a heading reading before it moves.
//
// Its constants have not been tuned on hardware.
type DriveToTargetDistance struct {
	Source    vision.Source
	Model     vision.TargetModel
	Buffer    float64
	Tolerance float64
	Law       control.ExpApproach
	Sink      monitoring.Sink
	LostAfter int

	hold     *drive.HeadingHold
	zeroed   bool
	distance float64
	speed    float64
	misses   *monitoring.MissTracker
}

func NewDriveToTargetDistance(d drive.Interface, sensor drive.HeadingSensor, src vision.Source, buffer float64) *DriveToTargetDistance {
	hold := drive.NewHeadingHold(d, sensor)
	hold.Source = "drive_to_target"
	c := &DriveToTargetDistance{
		Source:    src,
		Model:     vision.PegModel,
		Buffer:    buffer,
		Tolerance: DefaultRangeTolerance,
		Law:       control.ExpApproach{Base: 2.7, Rate: 0.01, Gain: 0.5},
		hold:      hold,
	}
	c.distance = c.unreached()
	return c
}

func (c *DriveToTargetDistance) Name() string { return "drive_to_target" }

func (c *DriveToTargetDistance) Hold() *drive.HeadingHold { return c.hold }

// unreached is a range that cannot satisfy IsFinished.
func (c *DriveToTargetDistance) unreached() float64 {
	return c.Buffer + c.Tolerance + 1
}

func (c *DriveToTargetDistance) Initialize() {
	c.distance = c.unreached()
	c.speed = 0
	c.hold.Sink = c.Sink
	c.misses = newTracker(c.Name(), c.LostAfter, c.Sink)
	c.zeroed = c.hold.Zero() == nil
}

func (c *DriveToTargetDistance) Execute() {
	if !c.zeroed {
		if c.zeroed = c.hold.Zero() == nil; !c.zeroed {
			return
		}
	}
	sep, ok := vision.PixelSeparation(c.Source.Frame())
	if !ok || sep <= 0 {
		c.misses.Miss()
		return
	}
	c.misses.Hit()

	c.distance = vision.EstimateDistance(sep, c.Model)
	c.speed = c.Law.Update(c.distance - c.Buffer)
	_ = c.hold.Hold(drive.Polar(c.speed, drive.DirForward, 0), drive.ModeDefault)
}

func (c *DriveToTargetDistance) IsFinished() bool {
	return c.zeroed && math.Abs(c.distance-c.Buffer) < c.Tolerance && c.hold.IsAligned()
}

func (c *DriveToTargetDistance) End()         { c.hold.Stop() }
func (c *DriveToTargetDistance) Interrupted() { c.hold.Stop() }

func (c *DriveToTargetDistance) Zeroed() bool { return c.zeroed }

// Distance is the last range estimate.
func (c *DriveToTargetDistance) Distance() float64 { return c.distance }

// Speed is the last signed speed computed; negative means reversing.
func (c *DriveToTargetDistance) Speed() float64 { return c.speed }
