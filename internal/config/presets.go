package config

import "sort"

// Presets are named starting situations for the built-in routines.
var Presets = map[string]func() *Config{
	"center_gear": func() *Config {
		return DefaultConfig()
	},
	"offset_left": func() *Config {
		c := DefaultConfig()
		c.Routine = "align_and_place"
		c.Start = StartConfig{X: -8, Y: 30, Heading: -3}
		return c
	},
	"offset_right": func() *Config {
		c := DefaultConfig()
		c.Routine = "align_and_place"
		c.Start = StartConfig{X: 8, Y: 30, Heading: 3}
		return c
	},
	"noisy": func() *Config {
		c := DefaultConfig()
		c.Robot.GyroNoise = 0.2
		c.Robot.CameraNoise = 0.5
		return c
	},
	"jammed": func() *Config {
		c := DefaultConfig()
		c.Robot.JamWheel = 2
		c.Duration = 5
		return c
	},
	"quick_turns": func() *Config {
		c := DefaultConfig()
		c.Routine = "square"
		c.Heading.Gain = 0.5
		c.Duration = 60
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	f, ok := Presets[name]
	if !ok {
		return nil
	}
	return f()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
