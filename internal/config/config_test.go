package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "mass-spring-damper", cfg.Model)
	assert.Equal(t, "rk4", cfg.Integrator)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero step", func(c *Config) { c.H = 0 }, dynamo.ErrInvalidStep},
		{"negative step", func(c *Config) { c.H = -0.1 }, dynamo.ErrInvalidStep},
		{"empty interval", func(c *Config) { c.T1 = c.T0 }, dynamo.ErrInvalidInterval},
		{"reversed interval", func(c *Config) { c.T0, c.T1 = 5, 1 }, dynamo.ErrInvalidInterval},
		{"no model", func(c *Config) { c.Model = "" }, dynamo.ErrInvalidArgument},
		{"no integrator", func(c *Config) { c.Integrator = "" }, dynamo.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("vanderpol", "relaxation")
	require.NotNil(t, cfg)
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: pendulum\nh: 0.05\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pendulum", cfg.Model)
	assert.Equal(t, 0.05, cfg.H)
	assert.Equal(t, "rk4", cfg.Integrator)
	assert.Equal(t, DefaultT1, cfg.T1)
	assert.Equal(t, 100, cfg.Newton.MaxIter)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("h: [1, 2\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("mass-spring-damper", "default")
	require.NotNil(t, cfg)
	assert.Equal(t, 0.1, cfg.H)
	assert.Equal(t, 100.0, cfg.T1)
	assert.Equal(t, []float64{1, 0}, cfg.InitState)

	cfg.InitState[0] = 42
	again := GetPreset("mass-spring-damper", "default")
	assert.Equal(t, 1.0, again.InitState[0], "presets must not be mutable through GetPreset")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("pendulum", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "small"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"large", "small", "spinning"}, ListPresets("pendulum"))
	assert.Nil(t, ListPresets("nonexistent"))
}

func TestPresetsAreValid(t *testing.T) {
	for model, presets := range Presets {
		for name, cfg := range presets {
			assert.Equal(t, model, cfg.Model, "%s/%s", model, name)
			assert.NoError(t, cfg.Validate(), "%s/%s", model, name)
		}
	}
}

func TestLinearSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: [[4, 1], [1, 3]]\nb: [1, 2]\n"), 0644))

	sys, err := LoadLinearSystem(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{4, 1}, {1, 3}}, sys.A)
	assert.Equal(t, []float64{1, 2}, sys.B)

	def := DefaultLinearSystem()
	assert.Len(t, def.A, 3)
	assert.Equal(t, []float64{8, -11, -3}, def.B)
}
