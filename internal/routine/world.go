package routine

import (
	"github.com/san-kum/autodrive/internal/config"
	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/heading"
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/sim"
	"github.com/san-kum/autodrive/internal/vision"
)

// Params maps a configuration onto simulator parameters. The simulated
// posts follow vision.target_separation; the lens keeps the peg
// calibration, so vision.focal_distance only changes the estimator.
func Params(cfg *config.Config) sim.Params {
	p := sim.DefaultParams()
	p.MaxSpeed = cfg.Robot.MaxSpeed
	p.MaxTurnRate = cfg.Robot.MaxTurnRate
	p.TicksPerRotation = cfg.Robot.TicksPerRotation
	p.WheelCircumference = cfg.Robot.WheelCircumference
	p.TrackWidth = cfg.Robot.TrackWidth
	p.MotorRate = cfg.Robot.MotorRate
	p.GyroNoise = cfg.Robot.GyroNoise
	p.CameraNoise = cfg.Robot.CameraNoise
	p.Camera.Width = cfg.Vision.FrameWidth
	p.Camera.TargetX = cfg.Vision.TargetX
	p.Camera.TargetY = cfg.Vision.TargetY
	p.Camera.PostSeparation = cfg.Vision.TargetSeparation
	return p
}

// NewWorld builds a robot from cfg and places it at the start pose.
func NewWorld(cfg *config.Config, integrator sim.Integrator) *sim.Robot {
	r := sim.NewRobot(Params(cfg), integrator, cfg.Seed)
	r.Place(cfg.Start.X, cfg.Start.Y, drive.Radians(cfg.Start.Heading))
	if cfg.Robot.JamWheel >= 0 {
		r.Motor(drive.Wheel(cfg.Robot.JamWheel)).Jam(true)
	}
	return r
}

// Env is everything a step builder may wire a command to.
type Env struct {
	Robot  *sim.Robot
	Config *config.Config
	Slots  heading.Slots
	Sink   monitoring.Sink
}

func NewEnv(robot *sim.Robot, cfg *config.Config, sink monitoring.Sink) *Env {
	return &Env{
		Robot:  robot,
		Config: cfg,
		Slots:  heading.Slots{},
		Sink:   sink,
	}
}

// Model is the vision calibration from the configuration.
func (e *Env) Model() vision.TargetModel {
	return vision.TargetModel{
		FocalDistance:    e.Config.Vision.FocalDistance,
		TargetSeparation: e.Config.Vision.TargetSeparation,
	}
}

// tune applies the configured gain and tolerance to a heading hold.
func (e *Env) tune(h *drive.HeadingHold) {
	h.SetGain(e.Config.Heading.Gain)
	h.Tolerance = drive.Radians(e.Config.Heading.ToleranceDeg)
	h.Sink = e.Sink
}
