// Package config loads and saves run configurations as YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

const (
	DefaultH  = 0.01
	DefaultT1 = 10.0
)

type Config struct {
	Model      string             `yaml:"model"`
	Integrator string             `yaml:"integrator"`
	T0         float64            `yaml:"t0"`
	T1         float64            `yaml:"t1"`
	H          float64            `yaml:"h"`
	InitState  []float64          `yaml:"init_state,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Newton     NewtonConfig       `yaml:"newton"`
}

// NewtonConfig tunes root finding for the roots command.
type NewtonConfig struct {
	MaxIter int     `yaml:"max_iter"`
	Tol     float64 `yaml:"tol"`
	Strict  bool    `yaml:"strict"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "mass-spring-damper",
		Integrator: "rk4",
		T0:         0,
		T1:         DefaultT1,
		H:          DefaultH,
		Newton: NewtonConfig{
			MaxIter: 100,
			Tol:     1e-10,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
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

// Validate checks the integration window before any work is done.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: model is required: %w", dynamo.ErrInvalidArgument)
	}
	if c.Integrator == "" {
		return fmt.Errorf("config: integrator is required: %w", dynamo.ErrInvalidArgument)
	}
	if !(c.H > 0) {
		return fmt.Errorf("config: h=%g: %w", c.H, dynamo.ErrInvalidStep)
	}
	if !(c.T1 > c.T0) {
		return fmt.Errorf("config: t0=%g t1=%g: %w", c.T0, c.T1, dynamo.ErrInvalidInterval)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.InitState != nil {
		out.InitState = append([]float64(nil), c.InitState...)
	}
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}

// LinearSystem is a dense system A·x = b read by the solve command.
type LinearSystem struct {
	A [][]float64 `yaml:"a"`
	B []float64   `yaml:"b"`
}

// DefaultLinearSystem has the solution [2, 3, -1].
func DefaultLinearSystem() *LinearSystem {
	return &LinearSystem{
		A: [][]float64{
			{2, 1, -1},
			{-3, -1, 2},
			{-2, 1, 2},
		},
		B: []float64{8, -11, -3},
	}
}

func LoadLinearSystem(path string) (*LinearSystem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sys LinearSystem
	if err := yaml.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("linear system %s: %w", path, err)
	}
	return &sys, nil
}
