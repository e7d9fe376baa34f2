package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	kitlog "github.com/go-kit/kit/log"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/experiment"
)

// MonteCarloConfig perturbs each component of the base initial state by a
// uniform offset in [-Perturbation, Perturbation). A zero Seed draws one
// from the clock.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	Trials       int
	Seed         int64
}

type MonteCarloResult struct {
	Trial     int
	InitState dynamo.State
	Final     dynamo.State
	Stable    bool // finite and within experiment.StabilityThreshold throughout
}

// RunMonteCarlo runs the trials on up to workers goroutines. Initial states
// are drawn up front so a given seed always yields the same trials.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, reg *experiment.Registry, workers int, logger kitlog.Logger) ([]MonteCarloResult, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("monte carlo: %d trials: %w", cfg.Trials, dynamo.ErrInvalidArgument)
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}

	base := dynamo.State(cfg.Base.InitState)
	if len(base) == 0 {
		m, err := reg.GetModel(cfg.Base.Model)
		if err != nil {
			return nil, err
		}
		base = m.DefaultState()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, cfg.Trials)
	jobs := make([]dynamo.Job, cfg.Trials)
	for trial := range jobs {
		y0 := make(dynamo.State, len(base))
		for i, v := range base {
			y0[i] = v + (rng.Float64()-0.5)*2*cfg.Perturbation
		}
		run := cfg.Base.Clone()
		run.InitState = y0
		results[trial] = MonteCarloResult{Trial: trial, InitState: y0.Clone()}

		jobs[trial] = dynamo.Job{
			Name: fmt.Sprintf("trial-%d", trial),
			Run: func() (*dynamo.Solution, error) {
				res, err := runTolerant(ctx, reg, run, logger)
				if err != nil {
					return nil, err
				}
				results[trial].Final = finalState(res.Solution)
				results[trial].Stable = res.err == nil && res.Metrics["stability"] == 1
				return res.Solution, nil
			},
		}
	}

	if _, err := dynamo.NewEnsemble(workers).Run(ctx, jobs); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// Spread is the largest distance between any trial's final state and the
// mean final state of the stable trials.
func Spread(results []MonteCarloResult) float64 {
	var mean dynamo.State
	var n int
	for _, r := range results {
		if !r.Stable || len(r.Final) == 0 {
			continue
		}
		if mean == nil {
			mean = make(dynamo.State, len(r.Final))
		}
		for i, v := range r.Final {
			mean[i] += v
		}
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	mean = mean.Scale(1 / float64(n))

	var spread float64
	for _, r := range results {
		if r.Stable && len(r.Final) == len(mean) {
			spread = math.Max(spread, r.Final.Sub(mean).Norm())
		}
	}
	return spread
}
