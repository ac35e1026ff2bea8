package drive

import "math"

// WrapAngle maps rads into (-pi, pi]. In-range values are returned untouched.
func WrapAngle(rads float64) float64 {
	if rads > math.Pi || rads <= -math.Pi {
		rads = math.Atan2(math.Sin(rads), math.Cos(rads))
		if rads <= -math.Pi {
			rads += 2 * math.Pi
		}
	}
	return rads
}

// AngleDiff returns the signed shortest rotation from b to a.
func AngleDiff(a, b float64) float64 {
	return WrapAngle(a - b)
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
