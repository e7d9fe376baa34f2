package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

func testSolution() *dynamo.Solution {
	return &dynamo.Solution{
		T: []float64{0, 0.1, 0.2},
		Y: []dynamo.State{{1, 0}, {0.9950041652780258, -0.09983341664682815}, {0.9800665778412416, -0.19866933079506122}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := RunMetadata{
		Model:      "test",
		Integrator: "rk4",
		T1:         0.2,
		H:          0.1,
		InitState:  []float64{1, 0},
		Metrics:    map[string]float64{"energy_drift": 1.5, "bad": math.NaN()},
	}

	runID, err := st.Save(meta, testSolution())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.Equal(t, "test", loaded.Model)
	assert.Equal(t, 2, loaded.Steps)
	assert.Equal(t, 1.5, loaded.Metrics["energy_drift"])
	assert.NotContains(t, loaded.Metrics, "bad")

	sol, err := st.LoadSolution(runID)
	require.NoError(t, err)
	assert.Equal(t, testSolution(), sol, "states must round trip exactly")
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Latest()
	assert.Error(t, err)

	first, err := st.Save(RunMetadata{Model: "a"}, testSolution())
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{Model: "b"}, testSolution())
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)

	latest, err := st.Latest()
	require.NoError(t, err)
	assert.Equal(t, second, latest)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{Model: "test"}, testSolution())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, runID, "metadata.json"))
	assert.FileExists(t, filepath.Join(dir, runID, "states.csv"))
}

func TestStoreSaveRagged(t *testing.T) {
	st := New(t.TempDir())
	sol := &dynamo.Solution{T: []float64{0, 1}, Y: []dynamo.State{{1, 2}, {3}}}

	_, err := st.Save(RunMetadata{Model: "test"}, sol)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "run_1", Model: "test", Integrator: "euler", H: 0.1}

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, testSolution()))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run_1", got.ID)
	assert.Equal(t, "euler", got.Integrator)
	assert.Equal(t, testSolution().T, got.Times)
	assert.Equal(t, testSolution().Rows(), got.States)

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, ExportJSONFile(path, meta, testSolution()))
	assert.FileExists(t, path)
}
