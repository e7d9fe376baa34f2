package experiment

import (
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/simfoundry/internal/analysis"
	"github.com/san-kum/simfoundry/internal/dynamo"
)

// exactSolver is implemented by models with a closed-form trajectory.
type exactSolver interface {
	Exact(t0, t float64, y0 dynamo.State) dynamo.State
}

// OrderEstimate is an observed order of accuracy and how it was measured:
// "exact" against a closed form, or "richardson" from successive halvings.
type OrderEstimate struct {
	Order  float64
	Method string
}

// Order estimates the stepper's order of accuracy on the configured problem
// starting from the configured step size.
func (e *Experiment) Order() (OrderEstimate, error) {
	if e.model == nil {
		return OrderEstimate{}, errNotSetup
	}

	f, t0, t1, h := e.model.Derive, e.cfg.T0, e.cfg.T1, e.cfg.H

	var est OrderEstimate
	var err error
	if ex, ok := e.model.(exactSolver); ok {
		y0 := e.y0.Clone()
		exact := func(t float64) dynamo.State { return ex.Exact(t0, t, y0) }
		est.Method = "exact"
		est.Order, err = analysis.ObservedOrder(e.stepper, f, t0, t1, e.y0, h, exact)
	} else {
		est.Method = "richardson"
		est.Order, err = analysis.RichardsonOrder(e.stepper, f, t0, t1, e.y0, h)
	}
	if err != nil {
		return OrderEstimate{}, err
	}

	level.Debug(e.logger).Log("msg", "order estimated", "method", est.Method, "order", est.Order)
	return est, nil
}
