package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/experiment"
)

const scenarioYAML = `name: growth-check
description: exponential growth, then a blow-up, then a damped oscillator
steps:
  - model: exponential
    t1: 1
    h: 0.1
    label: growth
  - model: exponential
    integrator: euler
    t1: 1
    h: 0.1
    params:
      lambda: 1e300
  - model: mass-spring-damper
    t1: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenarioDefaults(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "growth-check", sc.Name)
	require.Len(t, sc.Steps, 3)

	assert.Equal(t, "growth", sc.Steps[0].Label)
	assert.Equal(t, "rk4", sc.Steps[0].Integrator)
	assert.Equal(t, 0.1, sc.Steps[0].H)
	assert.Equal(t, 100, sc.Steps[0].Newton.MaxIter)

	assert.Equal(t, "euler", sc.Steps[1].Integrator)
	assert.Equal(t, 1e300, sc.Steps[1].Params["lambda"])

	assert.Equal(t, config.DefaultH, sc.Steps[2].H)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: empty\nsteps: []\n"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)

	_, err = LoadScenario(writeScenario(t, "steps: [oops"))
	assert.Error(t, err)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	outcomes, err := RunScenario(context.Background(), sc, experiment.NewRegistry(nil), nil)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "growth", outcomes[0].Label)
	assert.NoError(t, outcomes[0].Err)
	_, y := outcomes[0].Result.Solution.Final()
	assert.InDelta(t, math.E, y[0], 1e-5)

	assert.Equal(t, "exponential/euler", outcomes[1].Label)
	assert.ErrorIs(t, outcomes[1].Err, dynamo.ErrInvalidState)
	assert.NotEmpty(t, outcomes[1].Metadata.Error)

	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, "mass-spring-damper", outcomes[2].Metadata.Model)
}

func TestRunScenarioStopsOnSetupError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Config: *config.DefaultConfig()},
		{Config: config.Config{Model: "cartpole", Integrator: "rk4", T1: 1, H: 0.1}},
	}}

	outcomes, err := RunScenario(context.Background(), sc, experiment.NewRegistry(nil), nil)
	assert.ErrorIs(t, err, experiment.ErrNotFound)
	assert.Len(t, outcomes, 1)
}

func TestSweepValues(t *testing.T) {
	s := &ParameterSweep{Min: 0, Max: 1, Steps: 5}
	values, err := s.Values()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, values, 1e-15)

	s.Steps = 1
	values, err = s.Values()
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, values)

	s.Steps = 0
	_, err = s.Values()
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)
}

func TestRunSweepDamping(t *testing.T) {
	base := config.DefaultConfig()
	base.T1 = 5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base: base, Param: "c", Min: 0, Max: 0.4, Steps: 3,
	}, experiment.NewRegistry(nil), 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, want := range []float64{0, 0.2, 0.4} {
		assert.InDelta(t, want, results[i].ParamValue, 1e-15)
		assert.NoError(t, results[i].Err)
		assert.Len(t, results[i].Final, 2)
	}
	assert.Equal(t, 0, Best(results, "energy_drift"))
	assert.Less(t, results[0].Metrics["energy_drift"], 1e-6)
	assert.Nil(t, base.Params, "base config must not be modified")
}

func TestRunSweepRecordsDivergence(t *testing.T) {
	base := config.DefaultConfig()
	base.Model, base.Integrator, base.T1, base.H = "exponential", "euler", 1, 0.1

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base: base, Param: "lambda", Min: 1, Max: 1e300, Steps: 2,
	}, experiment.NewRegistry(nil), 0, nil)
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, dynamo.ErrInvalidState)
	assert.Equal(t, 0, Best(results, "max_norm"))
}

func TestRunSweepRejectsUnknownParam(t *testing.T) {
	_, err := RunSweep(context.Background(), &ParameterSweep{
		Base: config.DefaultConfig(), Param: "mass", Min: 0, Max: 1, Steps: 2,
	}, experiment.NewRegistry(nil), 1, nil)
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)
}

func TestBestIgnoresMissingMetric(t *testing.T) {
	assert.Equal(t, -1, Best(nil, "max_norm"))
	assert.Equal(t, -1, Best([]SweepResult{{Metrics: map[string]float64{"x": 1}}}, "max_norm"))
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Model, base.T1 = "pendulum", 1

	mc := &MonteCarloConfig{Base: base, Perturbation: 0.01, Trials: 8, Seed: 42}
	reg := experiment.NewRegistry(nil)

	first, err := RunMonteCarlo(context.Background(), mc, reg, 4, nil)
	require.NoError(t, err)
	require.Len(t, first, 8)

	pendulum, err := reg.GetModel("pendulum")
	require.NoError(t, err)
	y0 := pendulum.DefaultState()
	for i, r := range first {
		assert.Equal(t, i, r.Trial)
		require.Len(t, r.InitState, len(y0))
		for j := range y0 {
			assert.InDelta(t, y0[j], r.InitState[j], 0.01)
		}
		assert.True(t, r.Stable)
	}

	stable, unstable := MonteCarloStats(first)
	assert.Equal(t, 8, stable)
	assert.Zero(t, unstable)

	spread := Spread(first)
	assert.False(t, math.IsNaN(spread))
	assert.Less(t, spread, 0.1)

	again, err := RunMonteCarlo(context.Background(), mc, reg, 1, nil)
	require.NoError(t, err)
	for i := range first {
		assert.Equal(t, first[i].InitState, again[i].InitState)
	}
}

func TestRunMonteCarloErrors(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: config.DefaultConfig()}, experiment.NewRegistry(nil), 1, nil)
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)
}

func TestSpreadWithoutStableTrials(t *testing.T) {
	assert.True(t, math.IsNaN(Spread([]MonteCarloResult{{Stable: false}})))
}
