package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "center_gear", cfg.Routine)
	assert.Equal(t, 0.07, cfg.Heading.Gain)
	assert.Equal(t, 400.0, cfg.Encoder.DefaultSpeed)
	assert.Equal(t, 661.96, cfg.Vision.FocalDistance)
	assert.Equal(t, -1, cfg.Robot.JamWheel)
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	cfg := DefaultConfig()
	cfg.Start.X = -8
	cfg.Servo.Buffer = 18

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: 0.01\nservo:\n  buffer: 18\n"), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.01, loaded.Dt)
	assert.Equal(t, 18.0, loaded.Servo.Buffer)
	assert.Equal(t, 1.0, loaded.Servo.RangeTolerance)
	assert.Equal(t, DefaultIntegrator, loaded.Integrator)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AUTODRIVE_DT", "0.01")
	t.Setenv("AUTODRIVE_DATA_DIR", "/tmp/runs")
	t.Setenv("AUTODRIVE_INTEGRATOR", "euler")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 0.01, cfg.Dt)
	assert.Equal(t, "/tmp/runs", cfg.DataDir)
	assert.Equal(t, "euler", cfg.Integrator)
	assert.Equal(t, DefaultDuration, cfg.Duration)
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("AUTODRIVE_DURATION", "soon")
	require.Error(t, DefaultConfig().ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"zero circumference", func(c *Config) { c.Robot.WheelCircumference = 0 }},
		{"zero focal", func(c *Config) { c.Vision.FocalDistance = 0 }},
		{"bad jam wheel", func(c *Config) { c.Robot.JamWheel = 4 }},
		{"negative gain", func(c *Config) { c.Heading.Gain = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)

	for _, name := range names {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}

	a := GetPreset("offset_left")
	a.Start.X = 100
	assert.Equal(t, -8.0, GetPreset("offset_left").Start.X, "presets must be independent copies")
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestSetAndGet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("heading.gain", 0.12))
	assert.Equal(t, 0.12, cfg.Heading.Gain)
	v, err := cfg.Get("servo.buffer")
	require.NoError(t, err)
	assert.Equal(t, 21.0, v)

	assert.ErrorIs(t, cfg.Set("robot.jam_wheel", 1), ErrUnknownField)
	_, err = cfg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownField)

	for _, name := range Tunables() {
		_, err := cfg.Get(name)
		assert.NoError(t, err, name)
	}
}
