package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/autodrive/internal/sim"
)

// RK4 reuses its stage buffers between steps, so one value must not be
// shared between simulations running at the same time.
type RK4 struct {
	k1, k2, k3, k4 sim.State
	scratch        sim.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(sim.State, n)
		r.k2 = make(sim.State, n)
		r.k3 = make(sim.State, n)
		r.k4 = make(sim.State, n)
		r.scratch = make(sim.State, n)
	}
}

// Step holds u constant across the interval, matching a command that
// updates once per scheduler tick.
func (r *RK4) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	r.ensureScratch(len(x))
	half := dt / 2

	copy(r.k1, dyn.Derivative(x, u, t))
	floats.AddScaledTo(r.scratch, x, half, r.k1)
	copy(r.k2, dyn.Derivative(r.scratch, u, t+half))
	floats.AddScaledTo(r.scratch, x, half, r.k2)
	copy(r.k3, dyn.Derivative(r.scratch, u, t+half))
	floats.AddScaledTo(r.scratch, x, dt, r.k3)
	copy(r.k4, dyn.Derivative(r.scratch, u, t+dt))

	// k1 + 2k2 + 2k3 + k4, summed into k1
	floats.AddScaled(r.k1, 2, r.k2)
	floats.AddScaled(r.k1, 2, r.k3)
	floats.Add(r.k1, r.k4)

	next := make(sim.State, len(x))
	floats.AddScaledTo(next, x, dt/6, r.k1)
	return next
}
