package experiment

import (
	"errors"
	"fmt"
	"sort"

	kitlog "github.com/go-kit/kit/log"

	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/integrators"
	"github.com/san-kum/simfoundry/internal/metrics"
	"github.com/san-kum/simfoundry/internal/models"
)

// ErrNotFound is returned for names missing from a Registry.
var ErrNotFound = errors.New("experiment: not found")

// StabilityThreshold bounds every state component for the stability metric.
const StabilityThreshold = 1e6

type Registry struct {
	models      map[string]func() models.Model
	integrators map[string]func(kitlog.Logger) integrators.Stepper
	logger      kitlog.Logger
}

// NewRegistry returns a registry of the built-in models and steppers.
// Steppers it builds log to logger; nil means no logging.
func NewRegistry(logger kitlog.Logger) *Registry {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	r := &Registry{
		models:      make(map[string]func() models.Model),
		integrators: make(map[string]func(kitlog.Logger) integrators.Stepper),
		logger:      logger,
	}

	r.models["mass-spring-damper"] = func() models.Model { return models.NewMassSpringDamper() }
	r.models["pendulum"] = func() models.Model { return models.NewPendulum() }
	r.models["vanderpol"] = func() models.Model { return models.NewVanDerPol() }
	r.models["exponential"] = func() models.Model { return models.NewExponential() }
	r.models["lorenz"] = func() models.Model { return models.NewLorenz() }
	r.models["duffing"] = func() models.Model { return models.NewDuffing() }
	r.models["rossler"] = func() models.Model { return models.NewRossler() }

	r.integrators["euler"] = func(kitlog.Logger) integrators.Stepper { return integrators.NewEuler() }
	r.integrators["rk4"] = func(kitlog.Logger) integrators.Stepper { return integrators.NewRK4() }
	r.integrators["backward-euler"] = func(l kitlog.Logger) integrators.Stepper {
		b := integrators.NewBackwardEuler()
		b.Logger = l
		return b
	}

	return r
}

func (r *Registry) GetModel(name string) (models.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Stepper, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("integrator %q: %w", name, ErrNotFound)
	}
	return fn(r.logger), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics worth computing for model.
func (r *Registry) DefaultMetrics(model dynamo.System) []metrics.Metric {
	ms := []metrics.Metric{
		metrics.NewStability(StabilityThreshold),
		metrics.NewMaxNorm(),
	}
	if h, ok := model.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergyDrift(h))
	}
	return ms
}
