package integrators

import (
	kitlog "github.com/go-kit/kit/log"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/roots"
)

// BackwardEuler is the implicit Euler method. Each step solves
//
//	x − y_i − h·f(t_i + h, x) = 0
//
// with Newton-Raphson from x = y_i, using the solver's default tolerance,
// iteration budget and finite-difference Jacobian.
type BackwardEuler struct {
	Logger kitlog.Logger
}

func NewBackwardEuler() *BackwardEuler {
	return &BackwardEuler{Logger: kitlog.NewNopLogger()}
}

func (b *BackwardEuler) Name() string { return "backward-euler" }

func (b *BackwardEuler) Step(f dynamo.Derivative, t float64, y dynamo.State, h float64) dynamo.State {
	res := newBackwardResidual(f, y, t+h, h)

	nr := roots.NewNewtonRaphson()
	if b.Logger != nil {
		nr.Logger = kitlog.With(b.Logger, "stepper", b.Name(), "t", res.t)
	}

	x, _ := nr.Solve(res.Eval, y)
	return x
}

func (b *BackwardEuler) Solve(f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64) (*dynamo.Solution, error) {
	return Integrate(b, f, t0, t1, y0, h)
}

// backwardResidual is the per-step implicit Euler residual. It owns a copy
// of the previous state and is built fresh for every step.
type backwardResidual struct {
	prev dynamo.State
	t    float64
	h    float64
	f    dynamo.Derivative
}

func newBackwardResidual(f dynamo.Derivative, prev dynamo.State, t, h float64) backwardResidual {
	return backwardResidual{prev: prev.Clone(), t: t, h: h, f: f}
}

func (r backwardResidual) Eval(x dynamo.State) dynamo.State {
	fx := r.f(r.t, x)
	out := make(dynamo.State, len(x))
	floats.SubTo(out, x, r.prev)
	floats.AddScaled(out, -r.h, fx)
	return out
}
