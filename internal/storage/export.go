package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/autodrive/internal/sim"
)

type ExportData struct {
	Routine    string             `json:"routine"`
	Integrator string             `json:"integrator"`
	Outcome    string             `json:"outcome"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Controls   [][]float64        `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
	Events     []string           `json:"events,omitempty"`
}

// ExportJSON writes a full in-memory result as indented JSON.
func ExportJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	data := ExportData{
		Routine:    info.Routine,
		Integrator: info.Integrator,
		Outcome:    result.Outcome.String(),
		Dt:         info.Dt,
		Duration:   info.Duration,
		Steps:      len(result.Times),
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Controls:   make([][]float64, len(result.Controls)),
		Metrics:    result.Metrics,
	}

	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}
	for _, e := range result.Events {
		data.Events = append(data.Events, e.String())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportRun re-exports a stored run from its metadata and state table.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Routine:    meta.Routine,
		Integrator: meta.Integrator,
		Outcome:    meta.Outcome,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      len(times),
		Times:      times,
		States:     states,
		Controls:   [][]float64{},
		Metrics:    meta.Metrics,
		Events:     meta.Events,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
