package config

import "sort"

var Presets = map[string]map[string]*Config{
	"mass-spring-damper": {
		"default": {
			Model: "mass-spring-damper", Integrator: "rk4", T0: 0, T1: 100.0, H: 0.1,
			InitState: []float64{1.0, 0.0},
		},
		"euler": {
			Model: "mass-spring-damper", Integrator: "euler", T0: 0, T1: 100.0, H: 0.1,
			InitState: []float64{1.0, 0.0},
		},
		"undamped": {
			Model: "mass-spring-damper", Integrator: "rk4", T0: 0, T1: 50.0, H: 0.05,
			InitState: []float64{1.0, 0.0}, Params: map[string]float64{"c": 0},
		},
	},
	"pendulum": {
		"small": {
			Model: "pendulum", Integrator: "rk4", T1: 20.0, H: 0.01,
			InitState: []float64{0.2, 0.0},
		},
		"large": {
			Model: "pendulum", Integrator: "rk4", T1: 20.0, H: 0.01,
			InitState: []float64{2.5, 0.0},
		},
		"spinning": {
			Model: "pendulum", Integrator: "rk4", T1: 30.0, H: 0.01,
			InitState: []float64{0.1, 8.0},
		},
	},
	"vanderpol": {
		"classic": {
			Model: "vanderpol", Integrator: "rk4", T1: 30.0, H: 0.01,
			InitState: []float64{2.0, 0.0},
		},
		"relaxation": {
			Model: "vanderpol", Integrator: "backward-euler", T1: 50.0, H: 0.01,
			InitState: []float64{2.0, 0.0}, Params: map[string]float64{"mu": 5},
		},
	},
	"exponential": {
		"growth": {
			Model: "exponential", Integrator: "rk4", T1: 1.0, H: 0.01,
			InitState: []float64{1.0},
		},
		"stiff": {
			Model: "exponential", Integrator: "backward-euler", T1: 1.0, H: 0.01,
			InitState: []float64{1.0}, Params: map[string]float64{"lambda": -1000},
		},
	},
	"lorenz": {
		"butterfly": {
			Model: "lorenz", Integrator: "rk4", T1: 40.0, H: 0.01,
			InitState: []float64{1.0, 1.0, 1.0},
		},
	},
	"duffing": {
		"chaotic": {
			Model: "duffing", Integrator: "rk4", T1: 200.0, H: 0.01,
			InitState: []float64{1.0, 0.0},
		},
		"periodic": {
			Model: "duffing", Integrator: "rk4", T1: 100.0, H: 0.01,
			InitState: []float64{1.0, 0.0}, Params: map[string]float64{"gamma": 0.2},
		},
	},
	"rossler": {
		"attractor": {
			Model: "rossler", Integrator: "rk4", T1: 200.0, H: 0.01,
			InitState: []float64{1.0, 1.0, 1.0},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
