package drive

import "errors"

// ErrSensorUnavailable reports that a sensor has no reading for this tick.
var ErrSensorUnavailable = errors.New("drive: sensor unavailable")

// Interface is a drive that accepts holonomic vectors.
type Interface interface {
	Drive(v Vector, override Mode)
	SetDriveMode(mode Mode)
	DriveMode() Mode
}

// HeadingSensor reports the robot heading in radians, counter-clockwise
// positive, wrapped to (-pi, pi].
type HeadingSensor interface {
	HeadingRadians() (float64, error)
}

// Gyro is a navX style yaw reader: degrees, clockwise positive, unwrapped.
type Gyro interface {
	Angle() (float64, error)
}

// GyroHeading adapts a Gyro to a HeadingSensor.
type GyroHeading struct {
	Gyro Gyro
}

func (g GyroHeading) HeadingRadians() (float64, error) {
	if g.Gyro == nil {
		return 0, ErrSensorUnavailable
	}
	deg, err := g.Gyro.Angle()
	if err != nil {
		return 0, err
	}
	return WrapAngle(-Radians(deg)), nil
}

type ControlMode int

const (
	ControlPercentOutput ControlMode = iota
	ControlSpeed
	ControlPosition
)

func (c ControlMode) String() string {
	switch c {
	case ControlPercentOutput:
		return "percent_output"
	case ControlSpeed:
		return "speed"
	case ControlPosition:
		return "position"
	default:
		return "unknown"
	}
}

// Actuator is a single motor controller with an encoder. Set is interpreted
// according to the active control mode; in position mode it is an absolute
// encoder tick target.
type Actuator interface {
	Position() float64
	Set(value float64)
	SetControlMode(mode ControlMode)
}

// Wheel indexes the four drive actuators.
type Wheel int

const (
	FrontLeft Wheel = iota
	FrontRight
	BackLeft
	BackRight
)

const NumWheels = 4

func (w Wheel) RightSide() bool {
	return w == FrontRight || w == BackRight
}

func (w Wheel) String() string {
	switch w {
	case FrontLeft:
		return "front_left"
	case FrontRight:
		return "front_right"
	case BackLeft:
		return "back_left"
	case BackRight:
		return "back_right"
	default:
		return "unknown"
	}
}

// PerWheel holds one value per drive actuator.
type PerWheel[T any] [NumWheels]T
