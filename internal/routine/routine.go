// Package routine describes autonomous routines as ordered lists of named
// steps and turns them into command trees for a simulated robot.
package routine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownStep    = errors.New("routine: unknown step")
	ErrUnknownRoutine = errors.New("routine: unknown routine")
	ErrEmpty          = errors.New("routine: no steps")
)

// Routine is a scripted autonomous period.
type Routine struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one command in a routine. Params are step specific; Slot names a
// shared heading slot for store_heading and recall_heading.
type Step struct {
	Type   string             `yaml:"type"`
	Slot   string             `yaml:"slot,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Param returns the named parameter or def when it is absent.
func (s Step) Param(name string, def float64) float64 {
	if v, ok := s.Params[name]; ok {
		return v
	}
	return def
}

func Parse(data []byte) (*Routine, error) {
	var r Routine
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if len(r.Steps) == 0 {
		return nil, ErrEmpty
	}
	return &r, nil
}

// Load reads a routine from a YAML file.
func Load(path string) (*Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Resolve returns the built-in routine called name, or loads name as a
// YAML file when no built-in matches.
func Resolve(name string) (*Routine, error) {
	if r, err := Builtin(name); err == nil {
		return r, nil
	}
	if _, err := os.Stat(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoutine, name)
	}
	return Load(name)
}
