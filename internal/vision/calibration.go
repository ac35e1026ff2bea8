package vision

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/autodrive/internal/monitoring"
)

// DefaultCalibrationSamples is five seconds of frames at 50 Hz.
const DefaultCalibrationSamples = 250

// Calibration collects post separations while the robot sits at a known
// distance from the target. Frames with fewer than two contours are
// skipped and do not count toward Samples.
type Calibration struct {
	Source  Source
	Samples int
	Sink    monitoring.Sink

	xs, ys []float64
	misses *monitoring.MissTracker
}

func NewCalibration(src Source, samples int) *Calibration {
	if samples <= 0 {
		samples = DefaultCalibrationSamples
	}
	return &Calibration{Source: src, Samples: samples}
}

func (c *Calibration) Name() string { return "vision_calibration" }

func (c *Calibration) Initialize() {
	c.xs = make([]float64, 0, c.Samples)
	c.ys = make([]float64, 0, c.Samples)
	c.misses = monitoring.NewMissTracker(c.Name(), 50, c.Sink)
}

func (c *Calibration) Execute() {
	f := c.Source.Frame()
	dx, ok := CentersXDistance(f)
	if !ok {
		c.misses.Miss()
		return
	}
	c.misses.Hit()
	dy, _ := CentersYDistance(f)
	c.xs = append(c.xs, dx)
	c.ys = append(c.ys, dy)
}

func (c *Calibration) IsFinished() bool { return len(c.xs) >= c.Samples }

func (c *Calibration) End() {
	r := c.Result()
	monitoring.Logf("calibration: %d samples, mean dx=%.2f dy=%.2f separation=%.2f px",
		r.Count, r.MeanX, r.MeanY, r.Separation)
}

func (c *Calibration) Interrupted() {}

// CalibrationResult summarises the collected samples.
type CalibrationResult struct {
	Count      int
	MeanX      float64
	MeanY      float64
	StdDevX    float64
	StdDevY    float64
	Separation float64
}

// Result is valid at any point, including after an interrupt.
func (c *Calibration) Result() CalibrationResult {
	r := CalibrationResult{Count: len(c.xs)}
	if r.Count == 0 {
		return r
	}
	r.MeanX, r.StdDevX = stat.MeanStdDev(c.xs, nil)
	r.MeanY, r.StdDevY = stat.MeanStdDev(c.ys, nil)
	if r.Count == 1 {
		r.StdDevX, r.StdDevY = 0, 0
	}
	r.Separation = math.Hypot(r.MeanX, r.MeanY)
	return r
}

// Focal derives the focal constant for a target of known real separation
// seen from distance.
func (r CalibrationResult) Focal(distance, targetSeparation float64) float64 {
	return FocalFromSample(r.Separation, distance, targetSeparation)
}

// Model builds a TargetModel from the calibration.
func (r CalibrationResult) Model(distance, targetSeparation float64) TargetModel {
	return TargetModel{
		FocalDistance:    r.Focal(distance, targetSeparation),
		TargetSeparation: targetSeparation,
	}
}
