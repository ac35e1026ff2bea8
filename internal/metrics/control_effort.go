package metrics

import (
	"math"

	"github.com/san-kum/autodrive/internal/sim"
)

// DefaultTurnRadius is half the default track width, inches.
const DefaultTurnRadius = 12.0

// ControlEffort is the mean commanded wheel-surface speed: the translation
// speed plus the turn rate times TurnRadius, in inches per second.
type ControlEffort struct {
	TurnRadius float64

	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{TurnRadius: DefaultTurnRadius}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(x sim.State, u sim.Control, t float64) {
	if len(u) <= sim.ControlTurn {
		return
	}
	c.sum += math.Hypot(u[sim.ControlRight], u[sim.ControlForward]) + math.Abs(u[sim.ControlTurn])*c.TurnRadius
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
