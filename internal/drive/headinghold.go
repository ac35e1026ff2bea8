package drive

import (
	"math"

	"github.com/san-kum/autodrive/internal/control"
	"github.com/san-kum/autodrive/internal/monitoring"
)

const (
	DefaultHeadingGain = 0.07
	// DefaultHeadingTolerance is 2 degrees.
	DefaultHeadingTolerance = 2 * math.Pi / 180
)

// HeadingHold wraps a drive so that translation commands keep a fixed
// heading. The caller's turn is discarded and replaced by a proportional
// correction toward the stored origin.
type HeadingHold struct {
	drive     Interface
	sensor    HeadingSensor
	law       control.Proportional
	Tolerance float64

	// Sink receives EventSensorUnavailable when a drive tick is skipped.
	Sink   monitoring.Sink
	Source string

	origin float64
	zeroed bool
}

// NewHeadingHold wraps d and zeroes against the current heading if the
// sensor has a reading.
func NewHeadingHold(d Interface, sensor HeadingSensor) *HeadingHold {
	h := &HeadingHold{
		drive:     d,
		sensor:    sensor,
		law:       control.NewProportional(DefaultHeadingGain),
		Tolerance: DefaultHeadingTolerance,
		Source:    "heading_hold",
	}
	_ = h.Zero()
	return h
}

// SetGain replaces the proportional gain.
func (h *HeadingHold) SetGain(kp float64) { h.law.Kp = kp }

func (h *HeadingHold) Gain() float64 { return h.law.Kp }

// Zero captures the current heading as the origin. On a sensor error the
// origin is left unchanged.
func (h *HeadingHold) Zero() error {
	heading, err := h.sensor.HeadingRadians()
	if err != nil {
		return err
	}
	h.origin = heading
	h.zeroed = true
	return nil
}

// Offset shifts the origin by delta radians, requesting a relative turn.
func (h *HeadingHold) Offset(delta float64) {
	h.origin = WrapAngle(h.origin + delta)
}

func (h *HeadingHold) Origin() float64 { return h.origin }

// Zeroed reports whether Zero has ever succeeded.
func (h *HeadingHold) Zeroed() bool { return h.zeroed }

// HeadingError returns the wrapped signed difference current - origin.
func (h *HeadingHold) HeadingError() (float64, error) {
	heading, err := h.sensor.HeadingRadians()
	if err != nil {
		return 0, err
	}
	return AngleDiff(heading, h.origin), nil
}

// IsAligned reports |current - origin| < Tolerance. False without a reading.
func (h *HeadingHold) IsAligned() bool {
	e, err := h.HeadingError()
	if err != nil {
		return false
	}
	return math.Abs(e) < h.Tolerance
}

// Correction is the turn HeadingHold would substitute right now.
func (h *HeadingHold) Correction() (float64, error) {
	e, err := h.HeadingError()
	if err != nil {
		return 0, err
	}
	return h.law.Update(-e), nil
}

// Hold forwards v with its turn replaced by the heading correction. Without
// a heading reading nothing is sent and the wrapped drive keeps its last
// command.
func (h *HeadingHold) Hold(v Vector, override Mode) error {
	turn, err := h.Correction()
	if err != nil {
		monitoring.Emit(h.Sink, monitoring.Event{Source: h.Source, Kind: monitoring.EventSensorUnavailable})
		return err
	}
	v.Turn = turn
	h.drive.Drive(v, override)
	return nil
}

// Drive implements Interface. Errors from Hold are reported to Sink only.
func (h *HeadingHold) Drive(v Vector, override Mode) {
	_ = h.Hold(v, override)
}

// Stop sends a neutral vector straight to the wrapped drive. It does not
// depend on the heading sensor.
func (h *HeadingHold) Stop() {
	h.drive.Drive(Neutral, ModeDefault)
}

func (h *HeadingHold) SetDriveMode(mode Mode) { h.drive.SetDriveMode(mode) }

func (h *HeadingHold) DriveMode() Mode { return h.drive.DriveMode() }
