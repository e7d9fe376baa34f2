// Package optim searches model parameters for the run that minimizes a
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/experiment"
)

// ErrNoCandidate is returned when no grid point produced the metric.
var ErrNoCandidate = errors.New("optim: no grid point produced the metric")

// Builder returns a set-up experiment for one parameter combination.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     kitlog.Logger
}

// Candidate is the best grid point found.
type Candidate struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
}

func NewGridSearch(params []string, ranges [][]float64, logger kitlog.Logger) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("grid: %d params, %d ranges: %w", len(params), len(ranges), dynamo.ErrInvalidArgument)
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("grid: param %q has no values: %w", params[i], dynamo.ErrInvalidArgument)
		}
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &GridSearch{paramNames: params, ranges: ranges, logger: logger}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point and returns the one with the smallest value
// of metricName. Points whose setup fails, whose trajectory diverges or that
// lack the metric are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (Candidate, error) {
	best := Candidate{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best); err != nil {
		return Candidate{}, err
	}
	if best.Params == nil {
		return Candidate{}, fmt.Errorf("%s over %d points: %w", metricName, g.Size(), ErrNoCandidate)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, build Builder, metricName string, best *Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		best.Evaluated++
		exp, err := build(current)
		if err != nil {
			level.Debug(g.logger).Log("msg", "grid point skipped", "params", fmt.Sprint(current), "err", err)
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			level.Debug(g.logger).Log("msg", "grid point skipped", "params", fmt.Sprint(current), "err", err)
			return nil
		}

		val, ok := result.Metrics[metricName]
		if ok && val < best.Value {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, best); err != nil {
			return err
		}
	}
	return nil
}

// ConfigBuilder builds experiments from base with the grid parameters laid
// over its Params.
func ConfigBuilder(reg *experiment.Registry, base *config.Config, logger kitlog.Logger) Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			cfg.Params[k] = v
		}
		exp := experiment.New(cfg, logger)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

// ParseGrid reads axes written as name=v1,v2,... Axes come back sorted by
// name.
func ParseGrid(flags []string) ([]string, [][]float64, error) {
	axes := make(map[string][]float64, len(flags))
	for _, axis := range flags {
		name, list, ok := strings.Cut(axis, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("grid axis %q: want name=v1,v2: %w", axis, dynamo.ErrInvalidArgument)
		}
		if _, dup := axes[name]; dup {
			return nil, nil, fmt.Errorf("grid axis %q given twice: %w", name, dynamo.ErrInvalidArgument)
		}
		var values []float64
		for _, raw := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid axis %q: %w", axis, dynamo.ErrInvalidArgument)
			}
			values = append(values, v)
		}
		axes[name] = values
	}

	names := make([]string, 0, len(axes))
	for name := range axes {
		names = append(names, name)
	}
	sort.Strings(names)

	ranges := make([][]float64, len(names))
	for i, name := range names {
		ranges[i] = axes[name]
	}
	return names, ranges, nil
}
