package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Command: "center_gear",
		Outcome: sim.OutcomeFinished,
		Ticks:   2,
		States: []sim.State{
			{0, 0, 0},
			{0, 1.2, 0},
			{0, 2.4, 0.01},
		},
		Controls: []sim.Control{
			{0, 60, 0},
			{0, 60, 0.5},
		},
		Times:   []float64{0, 0.02, 0.04},
		Metrics: map[string]float64{"path_length": 2.4},
		Events: []monitoring.Event{
			{Source: "turn_align", Kind: monitoring.EventTargetLost, Streak: 50},
		},
	}
}

var sampleInfo = RunInfo{Routine: "center_gear", Dt: 0.02, Duration: 15, Seed: 42, Integrator: "rk4"}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(sampleInfo, sampleResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "center_gear_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "center_gear", meta.Routine)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, "finished", meta.Outcome)
	assert.Equal(t, 2, meta.Ticks)
	assert.Equal(t, 2.4, meta.Metrics["path_length"])
	assert.Equal(t, []string{"turn_align: target_lost (streak=50)"}, meta.Events)

	states, times, err := st.LoadStates(runID)
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, []float64{0, 0.02, 0.04}, times)
	assert.Equal(t, []float64{0, 2.4, 0.01}, states[2])
}

func TestStoreUniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	a, err := st.Save(sampleInfo, sampleResult())
	require.NoError(t, err)
	b, err := st.Save(sampleInfo, sampleResult())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(t.TempDir() + "/absent").List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreLoadUnknown(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, _, err = st.LoadStates("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, sampleInfo, sampleResult()))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, 3, data.Steps)
	assert.Equal(t, "finished", data.Outcome)
	assert.Len(t, data.Controls, 2)
}

func TestExportRun(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(sampleInfo, sampleResult())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportRun(&buf, runID))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "center_gear", data.Routine)
	assert.Len(t, data.States, 3)
}

func TestStoreQuery(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Save(sampleInfo, sampleResult())
	require.NoError(t, err)

	timedOut := sampleResult()
	timedOut.Outcome = sim.OutcomeTimedOut
	slow, err := st.Save(sampleInfo, timedOut)
	require.NoError(t, err)

	square := sampleInfo
	square.Routine = "square"
	_, err = st.Save(square, sampleResult())
	require.NoError(t, err)

	runs, err := st.Query(Filter{Routine: "center_gear"})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = st.Query(Filter{Outcome: "timed_out"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, slow, runs[0].ID)

	runs, err = st.Query(Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStoreReindex(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	a, err := st.Save(sampleInfo, sampleResult())
	require.NoError(t, err)
	b, err := st.Save(sampleInfo, sampleResult())
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(dir, b)))
	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1, "removed run should be skipped")
	assert.Equal(t, a, runs[0].ID)

	require.NoError(t, os.Remove(filepath.Join(dir, indexFile)))
	runs, err = st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	n, err := st.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
