package metrics

import (
	"math"

	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/sim"
)

// PathLength is the distance travelled over the field.
type PathLength struct {
	total  float64
	last   sim.State
	primed bool
}

func NewPathLength() *PathLength {
	return &PathLength{}
}

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) Observe(x sim.State, u sim.Control, t float64) {
	if p.primed {
		p.total += math.Hypot(x[sim.StateX]-p.last[sim.StateX], x[sim.StateY]-p.last[sim.StateY])
	}
	p.last = x.Clone()
	p.primed = true
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.total = 0
	p.last = nil
	p.primed = false
}

// HeadingDrift is the largest heading excursion from the first observed
// heading, in radians.
type HeadingDrift struct {
	origin float64
	max    float64
	primed bool
}

func NewHeadingDrift() *HeadingDrift {
	return &HeadingDrift{}
}

func (h *HeadingDrift) Name() string { return "heading_drift" }

func (h *HeadingDrift) Observe(x sim.State, u sim.Control, t float64) {
	if !h.primed {
		h.origin = x[sim.StateHeading]
		h.primed = true
	}
	h.max = math.Max(h.max, math.Abs(drive.AngleDiff(x[sim.StateHeading], h.origin)))
}

func (h *HeadingDrift) Value() float64 { return h.max }

func (h *HeadingDrift) Reset() {
	h.origin, h.max = 0, 0
	h.primed = false
}
