package sim

import (
	"math"
	"testing"

	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/vision"
)

func TestChassisDerivative(t *testing.T) {
	c := NewChassis()
	tests := []struct {
		name    string
		heading float64
		u       Control
		dx, dy  float64
	}{
		{"forward at zero heading", 0, Control{0, 1, 0}, 0, 1},
		{"right at zero heading", 0, Control{1, 0, 0}, 1, 0},
		{"forward facing left", math.Pi / 2, Control{0, 1, 0}, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Derivative(State{0, 0, tt.heading}, tt.u, 0)
			if math.Abs(d[StateX]-tt.dx) > 1e-12 || math.Abs(d[StateY]-tt.dy) > 1e-12 {
				t.Errorf("got (%v, %v), want (%v, %v)", d[StateX], d[StateY], tt.dx, tt.dy)
			}
		})
	}
}

func TestRobotGyro(t *testing.T) {
	r := NewRobot(DefaultParams(), &testIntegrator{}, 1)
	r.Place(0, 0, 0.3)

	deg, err := r.Angle()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(deg+drive.Degrees(0.3)) > 1e-9 {
		t.Errorf("navX angle %v, want %v", deg, -drive.Degrees(0.3))
	}
	h, _ := r.Heading().HeadingRadians()
	if math.Abs(h-0.3) > 1e-9 {
		t.Errorf("heading %v, want 0.3", h)
	}

	r.SetGyroAvailable(false)
	if _, err := r.Heading().HeadingRadians(); err == nil {
		t.Error("expected an error with the gyro off")
	}
}

func TestRobotCamera(t *testing.T) {
	r := NewRobot(DefaultParams(), &testIntegrator{}, 1)
	r.Place(0, 70, 0)

	f := r.Frame()
	if len(f.Contours) != 2 {
		t.Fatalf("expected both strips, got %d", len(f.Contours))
	}
	sep, _ := vision.PixelSeparation(f)
	if d := vision.EstimateDistance(sep, vision.PegModel); math.Abs(d-30) > 1e-6 {
		t.Errorf("estimated %v, want 30", d)
	}
	if x, _ := vision.NormalizedTargetX(f, vision.FrameWidth); math.Abs(x-0.5) > 1e-9 {
		t.Errorf("centred target at x=%v", x)
	}

	// peg to the robot's right appears right of centre
	r.Place(-5, 70, 0)
	if x, _ := vision.NormalizedTargetX(r.Frame(), vision.FrameWidth); x <= 0.5 {
		t.Errorf("expected x > 0.5, got %v", x)
	}

	r.Place(0, 150, 0)
	if n := len(r.Frame().Contours); n != 0 {
		t.Errorf("peg behind the camera produced %d contours", n)
	}

	r.Place(0, 70, 0)
	r.SetCameraAvailable(false)
	if n := len(r.Frame().Contours); n != 0 {
		t.Errorf("camera off produced %d contours", n)
	}
}

func TestRobotProximity(t *testing.T) {
	r := NewRobot(DefaultParams(), &testIntegrator{}, 1)
	r.Place(0, 0, 0)
	if v := r.ProximityVoltage(); v != 4.5 {
		t.Errorf("far voltage %v", v)
	}
	r.Place(0, 95, 0)
	if v := r.ProximityVoltage(); v >= 2 {
		t.Errorf("near voltage %v, want below 2", v)
	}
}

func TestMotor(t *testing.T) {
	m := NewMotor(1000)
	m.SetControlMode(drive.ControlPosition)
	m.Set(50)
	if d := m.advance(0.02); d != 20 {
		t.Errorf("expected a rate limited step of 20, got %v", d)
	}
	m.advance(1)
	if m.Position() != 50 {
		t.Errorf("expected to settle at 50, got %v", m.Position())
	}

	m.Jam(true)
	m.Set(500)
	if d := m.advance(1); d != 0 || m.Position() != 50 {
		t.Errorf("jammed motor moved by %v", d)
	}

	m.Jam(false)
	m.SetControlMode(drive.ControlPercentOutput)
	m.Set(0.5)
	if d := m.advance(0.1); d != 50 {
		t.Errorf("half output for 0.1s should move 50 ticks, got %v", d)
	}
}

func TestRobotHolonomicStep(t *testing.T) {
	r := NewRobot(DefaultParams(), &testIntegrator{}, 1)
	r.Drive(drive.Polar(0.5, drive.DirForward, 0), drive.ModeDefault)
	u := r.Step(0.02)
	if math.Abs(u[ControlForward]-60) > 1e-9 || math.Abs(u[ControlRight]) > 1e-9 {
		t.Errorf("unexpected control %v", u)
	}
	if y := r.State()[StateY]; math.Abs(y-1.2) > 1e-9 {
		t.Errorf("moved %v, want 1.2", y)
	}
}
