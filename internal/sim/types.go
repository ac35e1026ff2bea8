package sim

import (
	"math"

	"github.com/san-kum/autodrive/internal/monitoring"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type ObserverFunc func(x State, u Control, t float64)

func (f ObserverFunc) OnStep(x State, u Control, t float64) { f(x, u, t) }

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeFinished Outcome = iota
	OutcomeTimedOut
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type Result struct {
	Command  string
	Outcome  Outcome
	Ticks    int
	States   []State
	Controls []Control
	Times    []float64
	Metrics  map[string]float64
	Events   []monitoring.Event
}

// Final returns the last recorded state.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
