package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/autodrive/internal/command"
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/sim"
)

// Live runs a simulation in the background and renders it with bubbletea.
// Speed scales simulated time against wall time; zero runs unpaced.
type Live struct {
	Speed float64

	model   Model
	program *tea.Program
}

func NewLive(title string, duration, pegX, pegY float64) *Live {
	return &Live{Speed: 1, model: NewModel(title, duration, pegX, pegY)}
}

// Sink forwards escalation events to the view. Wire it into commands
// before Run; events emitted before Run are dropped.
func (l *Live) Sink() monitoring.Sink {
	return monitoring.SinkFunc(func(e monitoring.Event) {
		if l.program != nil {
			l.program.Send(EventMsg(e))
		}
	})
}

// stepLabel names the command a sequence is currently running.
func stepLabel(cmd command.Command) func() string {
	seq, ok := cmd.(*command.Sequence)
	if !ok {
		name := command.NameOf(cmd)
		return func() string { return name }
	}
	return func() string {
		if c := seq.Current(); c != nil {
			return command.NameOf(c)
		}
		return ""
	}
}

// Run plays cmd on s until the run ends and the user quits, or the user
// quits early, which cancels the run.
func (l *Live) Run(ctx context.Context, s *sim.Simulator, cmd command.Command, cfg sim.Config) (*sim.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.model.cancel = cancel
	l.program = tea.NewProgram(l.model, tea.WithAltScreen())

	label := stepLabel(cmd)
	robot := s.Robot()
	pace := time.Duration(0)
	if l.Speed > 0 {
		pace = time.Duration(cfg.Dt / l.Speed * float64(time.Second))
	}
	s.AddObserver(sim.ObserverFunc(func(x sim.State, u sim.Control, t float64) {
		l.program.Send(StepMsg{
			Time:    t,
			State:   x,
			Control: u,
			Step:    label(),
			Voltage: robot.ProximityVoltage(),
		})
		if pace > 0 {
			time.Sleep(pace)
		}
	}))

	type outcome struct {
		result *sim.Result
		err    error
	}
	finished := make(chan outcome, 1)
	go func() {
		r, err := s.Run(ctx, cmd, cfg)
		finished <- outcome{r, err}
		l.program.Send(DoneMsg{Result: r, Err: err})
	}()

	final, runErr := l.program.Run()
	cancel()
	out := <-finished

	if m, ok := final.(Model); ok && m.Done() {
		return m.Result()
	}
	if runErr != nil && out.err == nil {
		return out.result, runErr
	}
	return out.result, out.err
}
