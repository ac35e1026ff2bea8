// Package vision turns the contours of one camera frame into target
// geometry. Everything here is a pure function of its inputs so that the
// servo commands can be tested without a camera.
package vision

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera resolution of the gear camera.
const (
	FrameWidth  = 320.0
	FrameHeight = 240.0
)

var ErrTargetNotFound = errors.New("vision: target not found")

// Contour is the bounding box of one detected blob, in pixels, origin at
// the top left of the frame.
type Contour struct {
	X, Y          float64
	Width, Height float64
}

func (c Contour) Center() mgl64.Vec2 {
	return mgl64.Vec2{c.X + c.Width/2, c.Y + c.Height/2}
}

func (c Contour) Area() float64 {
	return c.Width * c.Height
}

// Frame is the contour set of one capture.
type Frame struct {
	Contours []Contour
}

// Source yields the latest frame. Implementations must not block.
type Source interface {
	Frame() Frame
}

type SourceFunc func() Frame

func (f SourceFunc) Frame() Frame { return f() }

// TargetModel holds the calibration constants for a two-post target.
type TargetModel struct {
	FocalDistance    float64
	TargetSeparation float64
}

// PegModel is the calibration of the gear peg reflective strips.
var PegModel = TargetModel{FocalDistance: 661.96, TargetSeparation: 8.25}

// largest returns up to n contours ordered by decreasing area. Ties keep
// frame order.
func largest(f Frame, n int) []Contour {
	cs := make([]Contour, len(f.Contours))
	copy(cs, f.Contours)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Area() > cs[j].Area() })
	if len(cs) > n {
		cs = cs[:n]
	}
	return cs
}

// TargetCenter is the mean centroid of the two largest contours, or the
// centroid of the only contour when just one is visible.
func TargetCenter(f Frame) (mgl64.Vec2, error) {
	cs := largest(f, 2)
	if len(cs) == 0 {
		return mgl64.Vec2{}, ErrTargetNotFound
	}
	var sum mgl64.Vec2
	for _, c := range cs {
		sum = sum.Add(c.Center())
	}
	return sum.Mul(1 / float64(len(cs))), nil
}

// NormalizedTargetX returns the target centre as a fraction of width,
// clamped to [0, 1]. ok is false when no target resolves.
func NormalizedTargetX(f Frame, width float64) (x float64, ok bool) {
	if width <= 0 {
		return 0, false
	}
	c, err := TargetCenter(f)
	if err != nil {
		return 0, false
	}
	return math.Min(1, math.Max(0, c.X()/width)), true
}

func postSpan(f Frame) (mgl64.Vec2, bool) {
	cs := largest(f, 2)
	if len(cs) < 2 {
		return mgl64.Vec2{}, false
	}
	return cs[1].Center().Sub(cs[0].Center()), true
}

// CentersXDistance is the absolute horizontal distance between the two
// largest contours.
func CentersXDistance(f Frame) (float64, bool) {
	d, ok := postSpan(f)
	return math.Abs(d.X()), ok
}

// CentersYDistance is the absolute vertical distance between the two
// largest contours.
func CentersYDistance(f Frame) (float64, bool) {
	d, ok := postSpan(f)
	return math.Abs(d.Y()), ok
}

// PixelSeparation is the Euclidean distance between the centroids of the
// two largest contours.
func PixelSeparation(f Frame) (float64, bool) {
	d, ok := postSpan(f)
	if !ok {
		return 0, false
	}
	return d.Len(), true
}

// EstimateDistance projects a pixel separation back to a range by similar
// triangles. The result is in the unit of m.TargetSeparation. A
// non-positive separation is a caller bug and panics.
func EstimateDistance(pixelSeparation float64, m TargetModel) float64 {
	if pixelSeparation <= 0 {
		panic(fmt.Sprintf("vision: EstimateDistance with pixel separation %v", pixelSeparation))
	}
	return m.FocalDistance * m.TargetSeparation / pixelSeparation
}

// FocalFromSample inverts EstimateDistance for a measurement taken at a
// known distance.
func FocalFromSample(pixelSeparation, distance, targetSeparation float64) float64 {
	return pixelSeparation * distance / targetSeparation
}
