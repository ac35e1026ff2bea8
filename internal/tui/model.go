// Package tui shows a routine running on the simulated field, live in the
// terminal.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/sim"
)

const (
	maxTrail  = 2000
	maxEvents = 4
	sparkLen  = 40
)

// StepMsg carries one simulated tick.
type StepMsg struct {
	Time    float64
	State   sim.State
	Control sim.Control
	Step    string
	Voltage float64
}

// EventMsg carries one diagnostic event.
type EventMsg monitoring.Event

// DoneMsg ends the run.
type DoneMsg struct {
	Result *sim.Result
	Err    error
}

type Model struct {
	Title    string
	Duration float64
	Field    Field

	peg    point
	cancel func()

	last   StepMsg
	seen   bool
	trail  []point
	speeds []float64
	events []string

	done   bool
	result *sim.Result
	err    error
}

func NewModel(title string, duration, pegX, pegY float64) Model {
	return Model{
		Title:    title,
		Duration: duration,
		Field:    DefaultField(),
		peg:      point{pegX, pegY},
		cancel:   func() {},
	}
}

// Result is the finished run, if any.
func (m Model) Result() (*sim.Result, error) { return m.result, m.err }

func (m Model) Done() bool { return m.done }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case StepMsg:
		m.last = msg
		m.seen = true
		if len(msg.State) > sim.StateY {
			m.trail = append(m.trail, point{msg.State[sim.StateX], msg.State[sim.StateY]})
			if len(m.trail) > maxTrail {
				m.trail = m.trail[1:]
			}
		}
		if len(msg.Control) > sim.ControlForward {
			m.speeds = append(m.speeds, math.Hypot(msg.Control[sim.ControlRight], msg.Control[sim.ControlForward]))
			if len(m.speeds) > sparkLen {
				m.speeds = m.speeds[1:]
			}
		}
	case EventMsg:
		if monitoring.Event(msg).Kind == monitoring.EventNoTarget {
			return m, nil
		}
		m.events = append(m.events, monitoring.Event(msg).String())
		if len(m.events) > maxEvents {
			m.events = m.events[1:]
		}
	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed.Render("error")
	case m.done && m.result != nil:
		if m.result.Outcome == sim.OutcomeFinished {
			return statusDone.Render(m.result.Outcome.String())
		}
		return statusFailed.Render(m.result.Outcome.String())
	case m.done:
		return statusFailed.Render("stopped")
	}
	return statusRunning.Render("running")
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(title.Render(m.Title) + "  " + m.status() + "\n")

	robot, heading := point{}, 0.0
	if m.seen && len(m.last.State) > sim.StateHeading {
		robot = point{m.last.State[sim.StateX], m.last.State[sim.StateY]}
		heading = m.last.State[sim.StateHeading]
	}
	b.WriteString(panel.Render(drawField(m.Field, m.trail, robot, heading, m.peg)) + "\n")

	stats := []string{
		metric("t", fmt.Sprintf("%6.2fs", m.last.Time)),
		metric("x", fmt.Sprintf("%7.2f", robot.x)),
		metric("y", fmt.Sprintf("%7.2f", robot.y)),
		metric("hdg", fmt.Sprintf("%7.2f°", drive.Degrees(heading))),
		metric("prox", fmt.Sprintf("%4.2fV", m.last.Voltage)),
	}
	b.WriteString(strings.Join(stats, "  ") + "\n")

	step := m.last.Step
	if step == "" {
		step = "-"
	}
	b.WriteString(metric("step", step) + "\n")
	b.WriteString(metricLabel.Render("speed ") + sparkline(m.speeds, sparkLen) + "\n")
	if m.Duration > 0 {
		b.WriteString(metricLabel.Render("time  ") + progressBar(m.last.Time/m.Duration, sparkLen) + "\n")
	}

	for _, e := range m.events {
		b.WriteString(subtle.Render("  "+e) + "\n")
	}
	if m.err != nil {
		b.WriteString(statusFailed.Render(m.err.Error()) + "\n")
	}
	b.WriteString(keyHint.Render("q quit"))
	return b.String()
}
