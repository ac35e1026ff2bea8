package drive

import (
	"fmt"
	"math"
)

// Mode selects how a drive interprets magnitude. ModeDefault as an override
// means "keep whatever the drive is currently using".
type Mode int

const (
	ModeDefault Mode = iota
	ModeVoltage
	ModeSpeed
	ModePosition
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeVoltage:
		return "voltage"
	case ModeSpeed:
		return "speed"
	case ModePosition:
		return "position"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

const (
	DirRight    = 0.0
	DirForward  = math.Pi / 2
	DirLeft     = math.Pi
	DirBackward = -math.Pi / 2
)

// Vector is a holonomic drive command. Magnitude is never negative; a zero
// magnitude holds position and leaves Direction meaningless.
type Vector struct {
	Magnitude float64
	Direction float64
	Turn      float64
}

// Neutral commands zero translation and zero rotation.
var Neutral = Vector{}

// Polar builds a Vector from a signed speed. A negative speed is expressed
// as a positive magnitude pointing the opposite way.
func Polar(speed, direction, turn float64) Vector {
	if speed < 0 {
		return Vector{Magnitude: -speed, Direction: WrapAngle(direction + math.Pi), Turn: turn}
	}
	return Vector{Magnitude: speed, Direction: direction, Turn: turn}
}

// Rotate commands an in-place rotation.
func Rotate(turn float64) Vector {
	return Vector{Turn: turn}
}

func (v Vector) IsNeutral() bool {
	return v.Magnitude == 0 && v.Turn == 0
}

// Components splits the translation into robot-frame (right, forward) parts.
func (v Vector) Components() (right, forward float64) {
	if v.Magnitude == 0 {
		return 0, 0
	}
	return v.Magnitude * math.Cos(v.Direction), v.Magnitude * math.Sin(v.Direction)
}

func (v Vector) String() string {
	return fmt.Sprintf("(mag=%.4f dir=%.4f turn=%.4f)", v.Magnitude, v.Direction, v.Turn)
}
