package metrics

import (
	"math"

	"github.com/san-kum/autodrive/internal/sim"
)

// InBounds is the fraction of ticks the robot centre stays inside a
// field half-width by half-length box around the origin.
type InBounds struct {
	name       string
	halfWidth  float64
	halfLength float64
	violations int
	samples    int
}

func NewInBounds(halfWidth, halfLength float64) *InBounds {
	return &InBounds{
		name:       "in_bounds",
		halfWidth:  halfWidth,
		halfLength: halfLength,
	}
}

func (s *InBounds) Name() string {
	return s.name
}

func (s *InBounds) Observe(x sim.State, u sim.Control, t float64) {
	s.samples++
	if math.Abs(x[sim.StateX]) > s.halfWidth || math.Abs(x[sim.StateY]) > s.halfLength {
		s.violations++
	}
}

func (s *InBounds) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *InBounds) Reset() {
	s.violations = 0
	s.samples = 0
}
