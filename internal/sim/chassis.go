package sim

import "math"

// Chassis state and control indices.
const (
	StateX = iota
	StateY
	StateHeading
)

const (
	ControlRight = iota
	ControlForward
	ControlTurn
)

// Chassis is the planar kinematics of a holonomic robot. State is the
// field pose [x, y, heading]; control is the robot-frame velocity
// [right, forward, omega]. At heading 0 the robot faces +y.
type Chassis struct{}

func NewChassis() *Chassis {
	return &Chassis{}
}

func (c *Chassis) Derivative(x State, u Control, t float64) State {
	th := x[StateHeading]
	sin, cos := math.Sincos(th)
	vr, vf, w := u[ControlRight], u[ControlForward], u[ControlTurn]
	return State{
		vr*cos - vf*sin,
		vr*sin + vf*cos,
		w,
	}
}

func (c *Chassis) StateDim() int   { return 3 }
func (c *Chassis) ControlDim() int { return 3 }

// ToRobot expresses the field point (px, py) in the robot frame of pose x.
func ToRobot(x State, px, py float64) (right, forward float64) {
	dx, dy := px-x[StateX], py-x[StateY]
	sin, cos := math.Sincos(x[StateHeading])
	return dx*cos + dy*sin, -dx*sin + dy*cos
}
