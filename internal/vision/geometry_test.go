package vision

import (
	"math"
	"testing"

	"github.com/san-kum/autodrive/internal/command"
	"github.com/san-kum/autodrive/internal/monitoring"
)

func post(cx, cy float64) Contour {
	return Contour{X: cx - 5, Y: cy - 20, Width: 10, Height: 40}
}

func TestNormalizedTargetX(t *testing.T) {
	tests := []struct {
		name   string
		frame  Frame
		want   float64
		wantOK bool
	}{
		{"empty", Frame{}, 0, false},
		{"single centred", Frame{Contours: []Contour{post(160, 120)}}, 0.5, true},
		{"pair", Frame{Contours: []Contour{post(105, 120), post(205, 120)}}, 155.0 / 320, true},
		{"pair with speck", Frame{Contours: []Contour{{X: 0, Y: 0, Width: 2, Height: 2}, post(105, 120), post(205, 120)}}, 155.0 / 320, true},
		{"right edge", Frame{Contours: []Contour{post(320, 120)}}, 1, true},
		{"left edge", Frame{Contours: []Contour{post(0, 120)}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizedTargetX(tt.frame, FrameWidth)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got < 0 || got > 1 {
				t.Errorf("x = %v out of [0,1]", got)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("x = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizedTargetXBadWidth(t *testing.T) {
	if _, ok := NormalizedTargetX(Frame{Contours: []Contour{post(10, 10)}}, 0); ok {
		t.Error("expected absent for zero width")
	}
}

func TestTargetCenterNotFound(t *testing.T) {
	if _, err := TargetCenter(Frame{}); err != ErrTargetNotFound {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestPixelSeparation(t *testing.T) {
	tests := []struct {
		name   string
		frame  Frame
		want   float64
		wantOK bool
	}{
		{"none", Frame{}, 0, false},
		{"one", Frame{Contours: []Contour{post(100, 100)}}, 0, false},
		{"horizontal", Frame{Contours: []Contour{post(105, 120), post(205, 120)}}, 100, true},
		{"diagonal", Frame{Contours: []Contour{post(100, 100), post(130, 140)}}, 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PixelSeparation(tt.frame)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("separation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCentersDistances(t *testing.T) {
	f := Frame{Contours: []Contour{post(130, 140), post(100, 100)}}
	dx, ok := CentersXDistance(f)
	if !ok || dx != 30 {
		t.Errorf("dx = %v, %v", dx, ok)
	}
	dy, ok := CentersYDistance(f)
	if !ok || dy != 40 {
		t.Errorf("dy = %v, %v", dy, ok)
	}
}

func TestEstimateDistance(t *testing.T) {
	got := EstimateDistance(100, PegModel)
	want := 661.96 * 8.25 / 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("distance = %v, want %v", got, want)
	}
	if again := EstimateDistance(100, PegModel); again != got {
		t.Errorf("not deterministic: %v then %v", got, again)
	}
	if far := EstimateDistance(50, PegModel); far <= got {
		t.Errorf("smaller separation should be farther: %v vs %v", far, got)
	}
}

func TestEstimateDistancePanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	EstimateDistance(0, PegModel)
}

func TestFocalRoundTrip(t *testing.T) {
	focal := FocalFromSample(100, 30, 8.25)
	m := TargetModel{FocalDistance: focal, TargetSeparation: 8.25}
	if d := EstimateDistance(100, m); math.Abs(d-30) > 1e-9 {
		t.Errorf("round trip distance = %v, want 30", d)
	}
}

func TestCalibration(t *testing.T) {
	tick := 0
	src := SourceFunc(func() Frame {
		tick++
		if tick%3 == 0 {
			return Frame{Contours: []Contour{post(100, 100)}}
		}
		return Frame{Contours: []Contour{post(100, 100), post(130, 140)}}
	})

	rec := monitoring.NewRecorder()
	c := NewCalibration(src, 10)
	c.Sink = rec

	r := command.NewRunner(c)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	ticks := 0
	for done := false; !done && ticks < 100; ticks++ {
		done, _ = r.Tick()
	}
	if r.State() != command.StateFinished {
		t.Fatalf("calibration did not finish, state %s", r.State())
	}

	res := c.Result()
	if res.Count != 10 {
		t.Errorf("count = %d, want 10", res.Count)
	}
	if math.Abs(res.MeanX-30) > 1e-9 || math.Abs(res.MeanY-40) > 1e-9 || math.Abs(res.Separation-50) > 1e-9 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.StdDevX > 1e-9 {
		t.Errorf("stddev = %v for constant samples", res.StdDevX)
	}
	if got := res.Focal(30, 8.25); math.Abs(got-50*30/8.25) > 1e-6 {
		t.Errorf("focal = %v", got)
	}
	if rec.Count(monitoring.EventNoTarget) == 0 {
		t.Error("skipped frames were not reported")
	}
}

func TestCalibrationDefaultSamples(t *testing.T) {
	if c := NewCalibration(SourceFunc(func() Frame { return Frame{} }), 0); c.Samples != DefaultCalibrationSamples {
		t.Errorf("samples = %d", c.Samples)
	}
}
