package drive

import (
	"errors"
	"math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4 * math.Pi, 0},
		{0.5, 0.5},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := WrapAngle(-math.Pi); math.Abs(math.Abs(got)-math.Pi) > 1e-9 {
		t.Errorf("WrapAngle(-pi) = %v, want magnitude pi", got)
	}
}

func TestAngleDiffAcrossBoundary(t *testing.T) {
	d := AngleDiff(Radians(-179), Radians(179))
	if math.Abs(Degrees(d)-2) > 1e-9 {
		t.Errorf("expected 2 degrees, got %v", Degrees(d))
	}
	d = AngleDiff(Radians(179), Radians(-179))
	if math.Abs(Degrees(d)+2) > 1e-9 {
		t.Errorf("expected -2 degrees, got %v", Degrees(d))
	}
}

func TestPolarNegativeSpeed(t *testing.T) {
	v := Polar(-0.3, DirForward, 0.1)
	if v.Magnitude != 0.3 {
		t.Errorf("magnitude should be positive, got %f", v.Magnitude)
	}
	if math.Abs(v.Direction-DirBackward) > 1e-12 {
		t.Errorf("direction should flip to backward, got %f", v.Direction)
	}
	if v.Turn != 0.1 {
		t.Errorf("turn altered: %f", v.Turn)
	}

	v = Polar(0.3, DirLeft, 0)
	if v.Magnitude != 0.3 || v.Direction != DirLeft {
		t.Errorf("positive speed should pass through, got %v", v)
	}
}

func TestVectorComponents(t *testing.T) {
	tests := []struct {
		v                  Vector
		wantRight, wantFwd float64
	}{
		{Vector{Magnitude: 1, Direction: DirRight}, 1, 0},
		{Vector{Magnitude: 1, Direction: DirForward}, 0, 1},
		{Vector{Magnitude: 0.5, Direction: DirLeft}, -0.5, 0},
		{Vector{Magnitude: 0, Direction: 1.234}, 0, 0},
	}
	for _, tt := range tests {
		r, f := tt.v.Components()
		if math.Abs(r-tt.wantRight) > 1e-12 || math.Abs(f-tt.wantFwd) > 1e-12 {
			t.Errorf("%v.Components() = (%v, %v), want (%v, %v)", tt.v, r, f, tt.wantRight, tt.wantFwd)
		}
	}
}

type fakeGyro struct {
	deg float64
	err error
}

func (g fakeGyro) Angle() (float64, error) { return g.deg, g.err }

func TestGyroHeading(t *testing.T) {
	h := GyroHeading{Gyro: fakeGyro{deg: 90}}
	rad, err := h.HeadingRadians()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(rad+math.Pi/2) > 1e-12 {
		t.Errorf("clockwise 90 deg should be -pi/2, got %v", rad)
	}

	h = GyroHeading{Gyro: fakeGyro{deg: -450}}
	rad, _ = h.HeadingRadians()
	if math.Abs(rad-math.Pi/2) > 1e-9 {
		t.Errorf("unwrapped gyro angle should wrap, got %v", rad)
	}

	boom := errors.New("spi timeout")
	h = GyroHeading{Gyro: fakeGyro{err: boom}}
	if _, err := h.HeadingRadians(); !errors.Is(err, boom) {
		t.Errorf("expected gyro error, got %v", err)
	}

	if _, err := (GyroHeading{}).HeadingRadians(); !errors.Is(err, ErrSensorUnavailable) {
		t.Errorf("nil gyro should be unavailable, got %v", err)
	}
}

func TestWheelSides(t *testing.T) {
	if FrontLeft.RightSide() || BackLeft.RightSide() {
		t.Error("left wheels reported as right side")
	}
	if !FrontRight.RightSide() || !BackRight.RightSide() {
		t.Error("right wheels reported as left side")
	}
}
