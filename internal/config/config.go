package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 0.02
	DefaultDuration   = 15.0
	DefaultIntegrator = "rk4"
	DefaultDataDir    = "./runs"
)

var (
	ErrInvalid      = errors.New("config: invalid")
	ErrUnknownField = errors.New("config: unknown field")
)

type Config struct {
	Routine    string        `yaml:"routine"`
	Integrator string        `yaml:"integrator"`
	Dt         float64       `yaml:"dt"`
	Duration   float64       `yaml:"duration"`
	Seed       int64         `yaml:"seed"`
	DataDir    string        `yaml:"data_dir"`
	Start      StartConfig   `yaml:"start"`
	Robot      RobotConfig   `yaml:"robot"`
	Heading    HeadingConfig `yaml:"heading"`
	Encoder    EncoderConfig `yaml:"encoder"`
	Vision     VisionConfig  `yaml:"vision"`
	Servo      ServoConfig   `yaml:"servo"`
}

// StartConfig is the robot pose at t=0. Heading is degrees, counter-clockwise.
type StartConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
}

type RobotConfig struct {
	MaxSpeed           float64 `yaml:"max_speed"`
	MaxTurnRate        float64 `yaml:"max_turn_rate"`
	TicksPerRotation   float64 `yaml:"ticks_per_rotation"`
	WheelCircumference float64 `yaml:"wheel_circumference"`
	TrackWidth         float64 `yaml:"track_width"`
	MotorRate          float64 `yaml:"motor_rate"`
	GyroNoise          float64 `yaml:"gyro_noise"`
	CameraNoise        float64 `yaml:"camera_noise"`
	// JamWheel freezes one motor (0-3); -1 for none.
	JamWheel int `yaml:"jam_wheel"`
}

type HeadingConfig struct {
	Gain         float64 `yaml:"gain"`
	ToleranceDeg float64 `yaml:"tolerance_deg"`
}

type EncoderConfig struct {
	DefaultSpeed float64 `yaml:"default_speed"`
	Invert       bool    `yaml:"invert"`
}

type VisionConfig struct {
	FocalDistance    float64 `yaml:"focal_distance"`
	TargetSeparation float64 `yaml:"target_separation"`
	FrameWidth       float64 `yaml:"frame_width"`
	TargetX          float64 `yaml:"target_x"`
	TargetY          float64 `yaml:"target_y"`
}

type ServoConfig struct {
	Buffer         float64 `yaml:"buffer"`
	RangeTolerance float64 `yaml:"range_tolerance"`
	LostThreshold  int     `yaml:"lost_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Routine:    "center_gear",
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		DataDir:    DefaultDataDir,
		Start:      StartConfig{X: 0, Y: 0, Heading: 0},
		Robot: RobotConfig{
			MaxSpeed:           120,
			MaxTurnRate:        1,
			TicksPerRotation:   4096,
			WheelCircumference: 18.85,
			TrackWidth:         24,
			MotorRate:          30000,
			JamWheel:           -1,
		},
		Heading: HeadingConfig{Gain: 0.07, ToleranceDeg: 2},
		Encoder: EncoderConfig{DefaultSpeed: 400},
		Vision: VisionConfig{
			FocalDistance:    661.96,
			TargetSeparation: 8.25,
			FrameWidth:       320,
			TargetX:          0,
			TargetY:          100,
		},
		Servo: ServoConfig{Buffer: 21, RangeTolerance: 1, LostThreshold: 50},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Env is the set of environment overrides.
type Env struct {
	DataDir    string  `env:"AUTODRIVE_DATA_DIR"`
	Dt         float64 `env:"AUTODRIVE_DT"`
	Duration   float64 `env:"AUTODRIVE_DURATION"`
	Integrator string  `env:"AUTODRIVE_INTEGRATOR"`
}

// ApplyEnv overrides fields from AUTODRIVE_* variables that are set.
func (c *Config) ApplyEnv() error {
	var e Env
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	if e.DataDir != "" {
		c.DataDir = e.DataDir
	}
	if e.Dt != 0 {
		c.Dt = e.Dt
	}
	if e.Duration != 0 {
		c.Duration = e.Duration
	}
	if e.Integrator != "" {
		c.Integrator = e.Integrator
	}
	return nil
}

// Validate rejects settings the simulator cannot run with.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"dt", c.Dt},
		{"duration", c.Duration},
		{"robot.max_speed", c.Robot.MaxSpeed},
		{"robot.max_turn_rate", c.Robot.MaxTurnRate},
		{"robot.ticks_per_rotation", c.Robot.TicksPerRotation},
		{"robot.wheel_circumference", c.Robot.WheelCircumference},
		{"robot.track_width", c.Robot.TrackWidth},
		{"robot.motor_rate", c.Robot.MotorRate},
		{"heading.tolerance_deg", c.Heading.ToleranceDeg},
		{"encoder.default_speed", c.Encoder.DefaultSpeed},
		{"vision.focal_distance", c.Vision.FocalDistance},
		{"vision.target_separation", c.Vision.TargetSeparation},
		{"vision.frame_width", c.Vision.FrameWidth},
		{"servo.range_tolerance", c.Servo.RangeTolerance},
	}
	for _, ch := range checks {
		if ch.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, ch.name, ch.value)
		}
	}
	if c.Robot.JamWheel < -1 || c.Robot.JamWheel > 3 {
		return fmt.Errorf("%w: robot.jam_wheel must be -1..3, got %d", ErrInvalid, c.Robot.JamWheel)
	}
	if c.Heading.Gain < 0 {
		return fmt.Errorf("%w: heading.gain must not be negative", ErrInvalid)
	}
	return nil
}

// tunables maps the numeric settings by their yaml path.
func (c *Config) tunables() map[string]*float64 {
	return map[string]*float64{
		"dt":                    &c.Dt,
		"duration":              &c.Duration,
		"start.x":               &c.Start.X,
		"start.y":               &c.Start.Y,
		"start.heading":         &c.Start.Heading,
		"robot.max_speed":       &c.Robot.MaxSpeed,
		"robot.max_turn_rate":   &c.Robot.MaxTurnRate,
		"robot.gyro_noise":      &c.Robot.GyroNoise,
		"robot.camera_noise":    &c.Robot.CameraNoise,
		"heading.gain":          &c.Heading.Gain,
		"heading.tolerance_deg": &c.Heading.ToleranceDeg,
		"encoder.default_speed": &c.Encoder.DefaultSpeed,
		"vision.focal_distance": &c.Vision.FocalDistance,
		"servo.buffer":          &c.Servo.Buffer,
		"servo.range_tolerance": &c.Servo.RangeTolerance,
	}
}

// Set assigns a numeric setting by its yaml path, e.g. "heading.gain".
func (c *Config) Set(path string, value float64) error {
	f, ok := c.tunables()[path]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	*f = value
	return nil
}

// Get reads a numeric setting by its yaml path.
func (c *Config) Get(path string) (float64, error) {
	f, ok := c.tunables()[path]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	return *f, nil
}

// Tunables lists the paths accepted by Set.
func Tunables() []string {
	var c Config
	names := make([]string, 0, len(c.tunables()))
	for name := range c.tunables() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
