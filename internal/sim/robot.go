package sim

import (
	"math"
	"math/rand"

	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/vision"
)

// Params describes the simulated robot and field. Lengths are inches.
type Params struct {
	// MaxSpeed is the translation speed at drive magnitude 1, per second.
	MaxSpeed float64
	// MaxTurnRate is the yaw rate at turn 1, radians per second.
	MaxTurnRate float64

	TicksPerRotation   float64
	WheelCircumference float64
	TrackWidth         float64
	// MotorRate is the fastest a motor can slew, ticks per second.
	MotorRate float64

	Camera CameraParams

	// ProximityRange is the distance at which the gear sensor reads its
	// highest voltage.
	ProximityRange float64

	GyroNoise   float64 // degrees, one sigma
	CameraNoise float64 // pixels, one sigma
}

// CameraParams is a forward-facing pinhole camera and the two reflective
// strips of the peg it looks at. The peg faces -y.
type CameraParams struct {
	Focal          float64
	Width, Height  float64
	TargetX        float64
	TargetY        float64
	PostSeparation float64
	PostWidth      float64
	PostHeight     float64
}

func DefaultParams() Params {
	return Params{
		MaxSpeed:           120,
		MaxTurnRate:        1,
		TicksPerRotation:   4096,
		WheelCircumference: 6 * math.Pi,
		TrackWidth:         24,
		MotorRate:          30000,
		Camera: CameraParams{
			Focal:          vision.PegModel.FocalDistance,
			Width:          vision.FrameWidth,
			Height:         vision.FrameHeight,
			TargetX:        0,
			TargetY:        100,
			PostSeparation: vision.PegModel.TargetSeparation,
			PostWidth:      2,
			PostHeight:     5,
		},
		ProximityRange: 30,
	}
}

// Robot is the simulated world: one chassis on a field with a peg, a gyro,
// a camera, four encoder motors and a gear proximity sensor. It implements
// drive.Interface, drive.Gyro and vision.Source.
type Robot struct {
	params     Params
	chassis    *Chassis
	integrator Integrator
	rng        *rand.Rand

	x State
	t float64

	cmd    drive.Vector
	mode   drive.Mode
	motors drive.PerWheel[*Motor]

	gyroOff   bool
	cameraOff bool
	lastU     Control
}

func NewRobot(p Params, integrator Integrator, seed int64) *Robot {
	r := &Robot{
		params:     p,
		chassis:    NewChassis(),
		integrator: integrator,
		rng:        rand.New(rand.NewSource(seed)),
		x:          State{0, 0, 0},
		mode:       drive.ModeVoltage,
		lastU:      Control{0, 0, 0},
	}
	for i := range r.motors {
		r.motors[i] = NewMotor(p.MotorRate)
	}
	return r
}

func (r *Robot) Params() Params { return r.params }

// Place teleports the robot. Heading is radians, counter-clockwise.
func (r *Robot) Place(x, y, heading float64) {
	r.x = State{x, y, heading}
}

func (r *Robot) State() State { return r.x.Clone() }

func (r *Robot) Time() float64 { return r.t }

// LastControl is the chassis velocity applied on the last Step.
func (r *Robot) LastControl() Control { return r.lastU }

func (r *Robot) Drive(v drive.Vector, override drive.Mode) {
	r.cmd = v
	if override != drive.ModeDefault {
		r.mode = override
	}
}

func (r *Robot) SetDriveMode(mode drive.Mode) { r.mode = mode }

func (r *Robot) DriveMode() drive.Mode { return r.mode }

// Command is the last holonomic vector received.
func (r *Robot) Command() drive.Vector { return r.cmd }

// Angle reads the gyro in navX convention: degrees, clockwise positive.
func (r *Robot) Angle() (float64, error) {
	if r.gyroOff {
		return 0, drive.ErrSensorUnavailable
	}
	deg := -drive.Degrees(r.x[StateHeading])
	if r.params.GyroNoise > 0 {
		deg += r.rng.NormFloat64() * r.params.GyroNoise
	}
	return deg, nil
}

// Heading adapts the gyro to a drive.HeadingSensor.
func (r *Robot) Heading() drive.HeadingSensor {
	return drive.GyroHeading{Gyro: r}
}

func (r *Robot) SetGyroAvailable(ok bool) { r.gyroOff = !ok }

func (r *Robot) SetCameraAvailable(ok bool) { r.cameraOff = !ok }

func (r *Robot) Motor(w drive.Wheel) *Motor { return r.motors[w] }

func (r *Robot) Wheels() drive.PerWheel[drive.Actuator] {
	var out drive.PerWheel[drive.Actuator]
	for i, m := range r.motors {
		out[i] = m
	}
	return out
}

// Frame projects both peg strips through the camera. A strip behind the
// camera or outside the image is not detected.
func (r *Robot) Frame() vision.Frame {
	if r.cameraOff {
		return vision.Frame{}
	}
	cam := r.params.Camera
	half := cam.PostSeparation / 2
	posts := [2][2]float64{
		{cam.TargetX - half, cam.TargetY},
		{cam.TargetX + half, cam.TargetY},
	}

	var f vision.Frame
	for _, p := range posts {
		right, forward := ToRobot(r.x, p[0], p[1])
		if forward <= 0 {
			continue
		}
		u := cam.Width/2 + cam.Focal*right/forward
		v := cam.Height / 2
		if r.params.CameraNoise > 0 {
			u += r.rng.NormFloat64() * r.params.CameraNoise
			v += r.rng.NormFloat64() * r.params.CameraNoise
		}
		if u < 0 || u > cam.Width {
			continue
		}
		w := cam.Focal * cam.PostWidth / forward
		h := cam.Focal * cam.PostHeight / forward
		f.Contours = append(f.Contours, vision.Contour{X: u - w/2, Y: v - h/2, Width: w, Height: h})
	}
	return f
}

// TargetRange is the true distance from the robot to the peg.
func (r *Robot) TargetRange() float64 {
	cam := r.params.Camera
	return math.Hypot(cam.TargetX-r.x[StateX], cam.TargetY-r.x[StateY])
}

// ProximityVoltage models the gear sensor: 0.5 V at the peg rising to
// 4.5 V at ProximityRange and beyond.
func (r *Robot) ProximityVoltage() float64 {
	if r.params.ProximityRange <= 0 {
		return 4.5
	}
	return 0.5 + 4*math.Min(1, r.TargetRange()/r.params.ProximityRange)
}

func (r *Robot) ticksToDistance(ticks float64) float64 {
	return ticks / r.params.TicksPerRotation * r.params.WheelCircumference
}

// Step advances the world by dt seconds and returns the applied control.
func (r *Robot) Step(dt float64) Control {
	var deltas drive.PerWheel[float64]
	for i, m := range r.motors {
		deltas[i] = m.advance(dt)
	}
	right := (deltas[drive.FrontRight] + deltas[drive.BackRight]) / 2
	left := (deltas[drive.FrontLeft] + deltas[drive.BackLeft]) / 2

	// right side counts up and left side counts down going forward
	forward := r.ticksToDistance((right - left) / 2)
	spin := r.ticksToDistance((right + left) / 2)

	cr, cf := r.cmd.Components()
	u := Control{
		cr * r.params.MaxSpeed,
		cf*r.params.MaxSpeed + forward/dt,
		r.cmd.Turn*r.params.MaxTurnRate + spin/(r.params.TrackWidth/2)/dt,
	}

	r.x = r.integrator.Step(r.chassis, r.x, u, r.t, dt)
	r.t += dt
	r.lastU = u
	return u
}
