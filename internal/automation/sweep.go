package automation

import (
	"context"
	"fmt"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/experiment"
)

// ParameterSweep runs Base once per evenly spaced value of one model
// parameter in [Min, Max].
type ParameterSweep struct {
	Base  *config.Config
	Param string
	Min   float64
	Max   float64
	Steps int
}

// SweepResult is one point of a sweep. Err records a diverged trajectory;
// Metrics then describe its valid prefix.
type SweepResult struct {
	ParamValue float64
	Final      dynamo.State
	Metrics    map[string]float64
	Err        error
}

// Values returns the parameter values the sweep visits.
func (s *ParameterSweep) Values() ([]float64, error) {
	if s.Steps < 1 {
		return nil, fmt.Errorf("sweep: %d steps: %w", s.Steps, dynamo.ErrInvalidArgument)
	}
	if s.Steps == 1 {
		return []float64{s.Min}, nil
	}
	values := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	values[len(values)-1] = s.Max
	return values, nil
}

// RunSweep runs the sweep on up to workers goroutines and returns results
// in parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep, reg *experiment.Registry, workers int, logger kitlog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	values, err := sweep.Values()
	if err != nil {
		return nil, err
	}
	if err := checkParam(reg, sweep.Base.Model, sweep.Param); err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(values))
	jobs := make([]dynamo.Job, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, 1)
		}
		cfg.Params[sweep.Param] = v
		results[i].ParamValue = v

		jobs[i] = dynamo.Job{
			Name: fmt.Sprintf("%s=%g", sweep.Param, v),
			Run: func() (*dynamo.Solution, error) {
				res, err := runTolerant(ctx, reg, cfg, logger)
				if err != nil {
					return nil, err
				}
				results[i].Final = finalState(res.Solution)
				results[i].Metrics = res.Metrics
				results[i].Err = res.err
				return res.Solution, nil
			},
		}
	}

	level.Debug(logger).Log("msg", "sweep", "model", sweep.Base.Model, "param", sweep.Param, "points", len(values))
	if _, err := dynamo.NewEnsemble(workers).Run(ctx, jobs); err != nil {
		return nil, err
	}
	return results, nil
}

func checkParam(reg *experiment.Registry, model, param string) error {
	m, err := reg.GetModel(model)
	if err != nil {
		return err
	}
	c, ok := m.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("model %q takes no params: %w", model, dynamo.ErrInvalidArgument)
	}
	if _, ok := c.GetParams()[param]; !ok {
		return fmt.Errorf("model %q has no param %q: %w", model, param, dynamo.ErrInvalidArgument)
	}
	return nil
}

type tolerantResult struct {
	*experiment.Result
	err error
}

// runTolerant runs cfg and treats a diverged trajectory as a result.
func runTolerant(ctx context.Context, reg *experiment.Registry, cfg *config.Config, logger kitlog.Logger) (tolerantResult, error) {
	exp := experiment.New(cfg, logger)
	if err := exp.Setup(reg); err != nil {
		return tolerantResult{}, err
	}
	res, err := exp.Run(ctx)
	if err != nil && !diverged(err) {
		return tolerantResult{}, err
	}
	return tolerantResult{Result: res, err: err}, nil
}

func finalState(sol *dynamo.Solution) dynamo.State {
	if sol.Len() == 0 {
		return nil
	}
	_, y := sol.Final()
	return y.Clone()
}

// Best returns the index of the successful result with the smallest value of
// metric, or -1.
func Best(results []SweepResult, metric string) int {
	best := -1
	for i, r := range results {
		v, ok := r.Metrics[metric]
		if !ok || r.Err != nil {
			continue
		}
		if best < 0 || v < results[best].Metrics[metric] {
			best = i
		}
	}
	return best
}
