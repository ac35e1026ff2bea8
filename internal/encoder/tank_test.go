package encoder

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/autodrive/internal/command"
	"github.com/san-kum/autodrive/internal/drive"
)

// fakeMotor jumps to each setpoint on the next read unless jammed.
type fakeMotor struct {
	pos      float64
	setpoint float64
	mode     drive.ControlMode
	jammed   bool
	sets     int
}

func (m *fakeMotor) Position() float64 { return m.pos }
func (m *fakeMotor) Set(v float64) {
	m.sets++
	m.setpoint = v
	if !m.jammed {
		m.pos = v
	}
}
func (m *fakeMotor) SetControlMode(mode drive.ControlMode) { m.mode = mode }

func newWheels(start ...float64) (drive.PerWheel[drive.Actuator], [drive.NumWheels]*fakeMotor) {
	var wheels drive.PerWheel[drive.Actuator]
	var motors [drive.NumWheels]*fakeMotor
	for i := range motors {
		motors[i] = &fakeMotor{mode: drive.ControlPercentOutput}
		if i < len(start) {
			motors[i].pos = start[i]
		}
		wheels[i] = motors[i]
	}
	return wheels, motors
}

func run(t *testing.T, c command.Command, limit int) (*command.Runner, int) {
	t.Helper()
	r := command.NewRunner(c)
	if err := r.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for i := 1; i <= limit; i++ {
		done, err := r.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if done {
			return r, i
		}
	}
	return r, -1
}

func TestTankCommandTargets(t *testing.T) {
	wheels, motors := newWheels(100, 200, 300, 400)
	c := NewTankCommand(wheels, 400, 1000)
	c.Initialize()

	want := drive.PerWheel[float64]{100 - 1000, 200 + 1000, 300 - 1000, 400 + 1000}
	if diff := cmp.Diff(want, c.Targets()); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	for i, m := range motors {
		if m.mode != drive.ControlPosition {
			t.Errorf("wheel %d not switched to position mode", i)
		}
	}
}

func TestTankCommandRamps(t *testing.T) {
	wheels, motors := newWheels()
	c := NewTankCommand(wheels, 400, 1000)
	r, ticks := run(t, c, 100)

	// 0 -> 400 -> 800 -> 1000 (within one step)
	if ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", ticks)
	}
	if r.State() != command.StateFinished {
		t.Errorf("expected finished, got %s", r.State())
	}
	if motors[drive.FrontRight].pos != 1000 || motors[drive.FrontLeft].pos != -1000 {
		t.Errorf("unexpected final positions: fr=%v fl=%v", motors[drive.FrontRight].pos, motors[drive.FrontLeft].pos)
	}
}

func TestTankCommandStepNeverExceedsSpeed(t *testing.T) {
	wheels, motors := newWheels()
	c := NewTankCommand(wheels, 250, 2000)
	c.Initialize()
	for tick := 0; tick < 20 && !c.IsFinished(); tick++ {
		before := motors[drive.BackLeft].pos
		c.Execute()
		if step := math.Abs(motors[drive.BackLeft].pos - before); step > 250 {
			t.Fatalf("tick %d stepped %v ticks, cap is 250", tick, step)
		}
	}
	if !c.IsFinished() {
		t.Error("expected completion")
	}
}

func TestTankCommandStalledWheelNeverFinishes(t *testing.T) {
	wheels, motors := newWheels()
	motors[drive.BackRight].jammed = true
	c := NewTankCommand(wheels, 400, 1000)

	r, ticks := run(t, c, 500)
	if ticks != -1 {
		t.Fatalf("stalled command finished after %d ticks", ticks)
	}
	if r.State() != command.StateRunning {
		t.Errorf("expected running, got %s", r.State())
	}

	done := c.WheelFinished()
	for i, f := range done {
		want := drive.Wheel(i) != drive.BackRight
		if f != want {
			t.Errorf("wheel %s finished=%v, want %v", drive.Wheel(i), f, want)
		}
	}
}

func TestTankCommandFinishedLatch(t *testing.T) {
	wheels, motors := newWheels()
	motors[drive.FrontLeft].jammed = true
	c := NewTankCommand(wheels, 400, 300)
	c.Initialize()
	c.Execute()

	if !c.WheelFinished()[drive.FrontRight] {
		t.Fatal("front right should be finished after one tick")
	}

	// knock the wheel off target; the latch must hold
	motors[drive.FrontRight].pos = -5000
	c.Execute()
	if !c.WheelFinished()[drive.FrontRight] {
		t.Error("finished flag was cleared")
	}
}

func TestTankCommandInterruptedHolds(t *testing.T) {
	wheels, motors := newWheels()
	c := NewTankCommand(wheels, 400, 5000)
	r := command.NewRunner(c)
	_ = r.Start()
	_, _ = r.Tick()
	_ = r.Cancel()

	for i, m := range motors {
		if m.setpoint != m.pos {
			t.Errorf("wheel %d setpoint %v, position %v: not held", i, m.setpoint, m.pos)
		}
	}
}

func TestTankCommandReinitializeResets(t *testing.T) {
	wheels, _ := newWheels()
	c := NewTankCommand(wheels, 400, 100)
	if _, ticks := run(t, c, 10); ticks != 1 {
		t.Fatalf("first run should finish in one tick, got %d", ticks)
	}
	c.Initialize()
	if c.IsFinished() {
		t.Error("Initialize must clear completion from a previous run")
	}
}

func TestFieldMovement(t *testing.T) {
	wheels, _ := newWheels()
	f, err := NewFieldMovement(wheels, 4096, 6*math.Pi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := f.DriveCommand(6*math.Pi, 0)
	if math.Abs(c.Ticks()-4096) > 1e-9 {
		t.Errorf("one circumference should be one rotation, got %v ticks", c.Ticks())
	}
	if c.Speed() != DefaultSpeed {
		t.Errorf("expected default speed, got %v", c.Speed())
	}

	f.Invert = true
	c = f.DriveCommand(12*math.Pi, 250)
	if math.Abs(c.Ticks()+8192) > 1e-9 {
		t.Errorf("inverted drive should negate ticks, got %v", c.Ticks())
	}
	if c.Speed() != 250 {
		t.Errorf("explicit speed ignored, got %v", c.Speed())
	}
}

func TestFieldMovementValidation(t *testing.T) {
	wheels, _ := newWheels()
	if _, err := NewFieldMovement(wheels, 0, 10); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}

	wheels[drive.BackLeft] = nil
	if _, err := NewFieldMovement(wheels, 4096, 10); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for missing wheel, got %v", err)
	}
}

func TestHoldCommand(t *testing.T) {
	wheels, motors := newWheels(10, 20, 30, 40)
	f, _ := NewFieldMovement(wheels, 4096, 10)

	_, ticks := run(t, f.HoldCommand(), 1)
	if ticks != 1 {
		t.Fatalf("hold should be instant, got %d", ticks)
	}
	for i, m := range motors {
		if m.setpoint != float64(10*(i+1)) || m.mode != drive.ControlPosition {
			t.Errorf("wheel %d: setpoint %v mode %v", i, m.setpoint, m.mode)
		}
	}
}
