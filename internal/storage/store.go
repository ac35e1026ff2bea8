package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/autodrive/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was set up.
type RunInfo struct {
	Routine    string
	Preset     string
	Dt         float64
	Duration   float64
	Seed       int64
	Integrator string
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Routine    string             `json:"routine"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Outcome    string             `json:"outcome"`
	Ticks      int                `json:"ticks"`
	Metrics    map[string]float64 `json:"metrics"`
	Events     []string           `json:"events,omitempty"`
}

var stateHeader = []string{"time", "x", "y", "heading", "u_right", "u_forward", "u_turn"}

func newMetadata(id string, info RunInfo, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		ID:         id,
		Routine:    info.Routine,
		Preset:     info.Preset,
		Timestamp:  time.Now(),
		Seed:       info.Seed,
		Dt:         info.Dt,
		Duration:   info.Duration,
		Integrator: info.Integrator,
		Outcome:    result.Outcome.String(),
		Ticks:      result.Ticks,
		Metrics:    result.Metrics,
	}
	for _, e := range result.Events {
		meta.Events = append(meta.Events, e.String())
	}
	return meta
}

// Save writes metadata.json and states.csv under a new run directory, adds
// the run to the index and returns the run id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", info.Routine, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := newMetadata(runID, info, result)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(stateHeader); err != nil {
		return "", err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		// the initial state has no control yet
		if i > 0 && i-1 < len(result.Controls) {
			for _, val := range result.Controls[i-1] {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		} else {
			row = append(row, "0", "0", "0")
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	if err := s.index(meta); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every indexed run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	return s.Query(Filter{})
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads back the pose columns [x, y, heading] and times.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state := make([]float64, 0, 3)
		for _, field := range record[1:4] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
			state = append(state, val)
		}
		if len(state) != 3 {
			continue
		}
		times = append(times, t)
		states = append(states, state)
	}

	return states, times, nil
}
