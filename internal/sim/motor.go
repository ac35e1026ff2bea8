package sim

import (
	"math"

	"github.com/san-kum/autodrive/internal/drive"
)

// Motor is a simulated smart motor controller with an encoder. In position
// mode it slews toward the setpoint at no more than Rate ticks per second;
// in the other modes the setpoint is a fraction of Rate.
type Motor struct {
	Rate float64

	pos      float64
	setpoint float64
	mode     drive.ControlMode
	jammed   bool
}

func NewMotor(rate float64) *Motor {
	return &Motor{Rate: rate}
}

func (m *Motor) Position() float64 { return m.pos }

func (m *Motor) Set(v float64) { m.setpoint = v }

func (m *Motor) Setpoint() float64 { return m.setpoint }

func (m *Motor) SetControlMode(mode drive.ControlMode) {
	if mode != m.mode {
		m.setpoint = 0
		if mode == drive.ControlPosition {
			m.setpoint = m.pos
		}
	}
	m.mode = mode
}

func (m *Motor) ControlMode() drive.ControlMode { return m.mode }

// Jam freezes the shaft; the encoder stops counting.
func (m *Motor) Jam(jammed bool) { m.jammed = jammed }

func (m *Motor) Jammed() bool { return m.jammed }

// advance moves the shaft for dt seconds and returns the tick delta.
func (m *Motor) advance(dt float64) float64 {
	if m.jammed {
		return 0
	}
	limit := m.Rate * dt
	var delta float64
	switch m.mode {
	case drive.ControlPosition:
		delta = math.Max(-limit, math.Min(limit, m.setpoint-m.pos))
	default:
		delta = math.Max(-1, math.Min(1, m.setpoint)) * limit
	}
	m.pos += delta
	return delta
}
