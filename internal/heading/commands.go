package heading

import (
	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/monitoring"
)

// rotation is the shared body of TurnByAngle and RecallHeading: hold a
// zero vector through a HeadingHold whose origin has been moved, until
// the robot is aligned with it.
type rotation struct {
	hold      *drive.HeadingHold
	offsetSet bool
	target    func() (float64, bool)
}

// apply zeroes the hold and shifts its origin. It leaves offsetSet false
// when either the sensor or the target has nothing to offer this tick.
func (r *rotation) apply() {
	delta, ok := r.target()
	if !ok {
		return
	}
	if err := r.hold.Zero(); err != nil {
		return
	}
	r.hold.Offset(delta)
	r.offsetSet = true
}

func (r *rotation) Initialize() {
	r.offsetSet = false
	r.apply()
}

func (r *rotation) Execute() {
	if !r.offsetSet {
		r.apply()
		if !r.offsetSet {
			return
		}
	}
	_ = r.hold.Hold(drive.Neutral, drive.ModeDefault)
}

// IsFinished requires the offset to have been applied, so a command can
// never finish against the heading it started from.
func (r *rotation) IsFinished() bool {
	return r.offsetSet && r.hold.IsAligned()
}

func (r *rotation) End()         { r.hold.Stop() }
func (r *rotation) Interrupted() { r.hold.Stop() }

// Hold exposes the underlying HeadingHold.
func (r *rotation) Hold() *drive.HeadingHold { return r.hold }

// OffsetSet reports whether the origin has been moved this run.
func (r *rotation) OffsetSet() bool { return r.offsetSet }

// TurnByAngle rotates in place by Delta radians, counter-clockwise
// positive.
type TurnByAngle struct {
	rotation
	Delta float64
}

func NewTurnByAngle(d drive.Interface, sensor drive.HeadingSensor, delta float64) *TurnByAngle {
	t := &TurnByAngle{Delta: delta}
	t.rotation = rotation{
		hold:   drive.NewHeadingHold(d, sensor),
		target: func() (float64, bool) { return t.Delta, true },
	}
	t.hold.Source = "turn_by_angle"
	return t
}

func (t *TurnByAngle) Name() string { return "turn_by_angle" }

// StoreHeading records the current heading into Slot when it runs. It
// finishes on its first tick whether or not a reading was available; an
// unavailable sensor leaves the slot empty.
type StoreHeading struct {
	Sensor drive.HeadingSensor
	Slot   *Slot
}

func NewStoreHeading(sensor drive.HeadingSensor, slot *Slot) *StoreHeading {
	return &StoreHeading{Sensor: sensor, Slot: slot}
}

func (s *StoreHeading) Name() string { return "store_heading" }

func (s *StoreHeading) Initialize() {
	h, err := s.Sensor.HeadingRadians()
	if err != nil {
		monitoring.Logf("store_heading: %v", err)
		return
	}
	s.Slot.Set(h)
}

func (s *StoreHeading) Execute()         {}
func (s *StoreHeading) IsFinished() bool { return true }
func (s *StoreHeading) End()             {}
func (s *StoreHeading) Interrupted()     {}

// RecallHeading turns back to the heading held in Slot. An empty slot is
// treated like a missing sensor reading: the command waits and retries.
type RecallHeading struct {
	rotation
	Slot *Slot
}

func NewRecallHeading(d drive.Interface, sensor drive.HeadingSensor, slot *Slot) *RecallHeading {
	r := &RecallHeading{Slot: slot}
	hold := drive.NewHeadingHold(d, sensor)
	hold.Source = "recall_heading"
	r.rotation = rotation{
		hold: hold,
		target: func() (float64, bool) {
			stored, ok := r.Slot.Get()
			if !ok {
				return 0, false
			}
			current, err := sensor.HeadingRadians()
			if err != nil {
				return 0, false
			}
			return drive.AngleDiff(stored, current), true
		},
	}
	return r
}

func (r *RecallHeading) Name() string { return "recall_heading" }
