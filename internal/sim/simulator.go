package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/autodrive/internal/command"
	"github.com/san-kum/autodrive/internal/monitoring"
)

// Simulator ticks one command tree against a Robot at a fixed rate. The
// command runs first on each tick, then the world advances by Dt.
type Simulator struct {
	robot     *Robot
	metrics   []Metric
	observers []Observer
	events    *monitoring.Recorder
}

func New(robot *Robot) *Simulator {
	return &Simulator{
		robot:     robot,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		events:    monitoring.NewRecorder(),
	}
}

func (s *Simulator) Robot() *Robot { return s.robot }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Events is the sink commands should report to; its contents are copied
// into Result.Events.
func (s *Simulator) Events() monitoring.Sink { return s.events }

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

// Run drives cmd until it finishes or the time budget runs out, in which
// case it is interrupted. A cancelled ctx also interrupts the command and
// its error is returned alongside the partial result.
func (s *Simulator) Run(ctx context.Context, cmd command.Command, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Command:  command.NameOf(cmd),
		Outcome:  OutcomeTimedOut,
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.events.Reset()

	runner := command.NewRunner(cmd)
	if err := runner.Start(); err != nil {
		return nil, err
	}

	result.States = append(result.States, s.robot.State())
	result.Times = append(result.Times, s.robot.Time())

	finish := func() {
		result.Ticks = runner.Ticks()
		result.Events = s.events.Events()
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			_ = runner.Cancel()
			result.Outcome = OutcomeCancelled
			finish()
			return result, ctx.Err()
		default:
		}

		done, err := runner.Tick()
		if err != nil {
			finish()
			return result, &StepError{Tick: i, Time: s.robot.Time(), Wrapped: err}
		}

		u := s.robot.Step(cfg.Dt)
		x := s.robot.State()
		if !x.IsValid() {
			if !done {
				_ = runner.Cancel()
			}
			finish()
			return result, &StepError{Tick: i, Time: s.robot.Time(), Wrapped: ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(x, u, s.robot.Time())
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, s.robot.Time())
		}

		result.States = append(result.States, x)
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, s.robot.Time())

		if done {
			result.Outcome = OutcomeFinished
			break
		}
	}

	if result.Outcome == OutcomeTimedOut {
		_ = runner.Cancel()
		monitoring.Logf("sim: %s did not finish within %.2fs, interrupted", result.Command, cfg.Duration)
	}

	finish()
	return result, nil
}
