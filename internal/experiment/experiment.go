// Package experiment wires a configured model and stepper into a run.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/integrators"
	"github.com/san-kum/simfoundry/internal/metrics"
	"github.com/san-kum/simfoundry/internal/models"
	"github.com/san-kum/simfoundry/internal/storage"
)

var errNotSetup = errors.New("experiment not setup")

type Experiment struct {
	cfg     *config.Config
	model   models.Model
	stepper integrators.Stepper
	y0      dynamo.State
	metrics []metrics.Metric
	logger  kitlog.Logger
}

// Result is a finished run.
type Result struct {
	Model      string
	Integrator string
	Solution   *dynamo.Solution
	Metrics    map[string]float64
	Elapsed    time.Duration
}

func New(cfg *config.Config, logger kitlog.Logger) *Experiment {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Experiment{
		cfg:    cfg.Clone(),
		logger: kitlog.With(logger, "model", cfg.Model, "integrator", cfg.Integrator),
	}
}

// Setup validates the configuration and resolves the model, stepper,
// parameters, initial state and metrics.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	model, err := reg.GetModel(e.cfg.Model)
	if err != nil {
		return err
	}
	stepper, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	if len(e.cfg.Params) > 0 {
		c, ok := model.(dynamo.Configurable)
		if !ok {
			return fmt.Errorf("model %q takes no params: %w", e.cfg.Model, dynamo.ErrInvalidArgument)
		}
		for name, value := range e.cfg.Params {
			if err := c.SetParam(name, value); err != nil {
				return err
			}
		}
	}

	y0 := dynamo.State(e.cfg.InitState)
	if len(y0) == 0 {
		y0 = model.DefaultState()
	}
	if len(y0) != model.StateDim() {
		return fmt.Errorf("model %q: initial state has %d components, want %d: %w",
			e.cfg.Model, len(y0), model.StateDim(), dynamo.ErrDimensionMismatch)
	}

	e.model = model
	e.stepper = stepper
	e.y0 = y0.Clone()
	e.metrics = reg.DefaultMetrics(model)
	return nil
}

// Run integrates the configured problem. If the trajectory leaves the
// finite numbers, the valid prefix is returned with a *dynamo.StepError
// wrapping dynamo.ErrInvalidState.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.model == nil {
		return nil, errNotSetup
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	level.Debug(e.logger).Log("msg", "starting run", "t0", e.cfg.T0, "t1", e.cfg.T1, "h", e.cfg.H)

	start := time.Now()
	sol, err := integrators.Integrate(e.stepper, e.model.Derive, e.cfg.T0, e.cfg.T1, e.y0, e.cfg.H)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	var runErr error
	if idx := sol.FirstInvalid(); idx >= 0 {
		runErr = &dynamo.StepError{Step: idx, Time: sol.T[idx], Wrapped: dynamo.ErrInvalidState}
		level.Warn(e.logger).Log("msg", "state diverged", "step", idx, "t", sol.T[idx])
		sol = &dynamo.Solution{T: sol.T[:idx], Y: sol.Y[:idx]}
	}

	res := &Result{
		Model:      e.cfg.Model,
		Integrator: e.stepper.Name(),
		Solution:   sol,
		Metrics:    metrics.Evaluate(sol, e.metrics...),
		Elapsed:    elapsed,
	}

	level.Info(e.logger).Log("msg", "run complete", "samples", sol.Len(), "elapsed", elapsed)
	return res, runErr
}

// Metadata describes the run for storage.
func (e *Experiment) Metadata(res *Result, runErr error) storage.RunMetadata {
	meta := storage.RunMetadata{
		Model:      e.cfg.Model,
		Integrator: e.cfg.Integrator,
		T0:         e.cfg.T0,
		T1:         e.cfg.T1,
		H:          e.cfg.H,
		InitState:  e.y0,
		Params:     e.cfg.Params,
	}
	if res != nil {
		meta.Metrics = res.Metrics
		meta.Elapsed = res.Elapsed
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}
