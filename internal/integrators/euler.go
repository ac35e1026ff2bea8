package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/autodrive/internal/sim"
)

// Euler is first order. It drifts on long turns; kept for comparing runs
// against RK4 at coarse dt.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	next := make(sim.State, len(x))
	floats.AddScaledTo(next, x, dt, dyn.Derivative(x, u, t))
	return next
}
