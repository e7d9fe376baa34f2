// Package roots finds roots of nonlinear vector functions.
//
// [NewtonRaphson] iterates x ← x + Δx with J(x)·Δx = −F(x), solving each
// linear system with Gaussian elimination. By default it never reports
// failure: an exhausted iteration budget returns the last iterate. Inspect
// [Result.Converged], or set Strict, when that matters.
package roots

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/finitediff"
	"github.com/san-kum/simfoundry/internal/linalg"
)

const (
	DefaultMaxIter = 100
	DefaultTol     = 1e-10
)

type NewtonRaphson struct {
	MaxIter  int
	Tol      float64
	Jacobian Jacobian

	// Strict turns an exhausted iteration budget into ErrDidNotConverge.
	Strict bool

	Logger kitlog.Logger
}

func NewNewtonRaphson() *NewtonRaphson {
	return &NewtonRaphson{
		MaxIter:  DefaultMaxIter,
		Tol:      DefaultTol,
		Jacobian: Approximate(finitediff.DefaultStep),
		Logger:   kitlog.NewNopLogger(),
	}
}

// Result describes a finished Newton iteration.
type Result struct {
	X          dynamo.State
	Iterations int
	Converged  bool

	// Residual is ‖F‖₂ at the last iterate Run evaluated. That is X when
	// Converged. When the budget runs out, X has had one more update that
	// was never evaluated; NaN if MaxIter < 1.
	Residual float64
}

// Run iterates from x0 until ‖F(x)‖₂ < Tol or MaxIter updates have been made.
// F is called at most MaxIter times, so an iterate reached by the last update
// is returned unchecked. x0 is not modified.
func (n *NewtonRaphson) Run(f dynamo.Residual, x0 dynamo.State) (Result, error) {
	jac := n.Jacobian
	if jac == nil {
		jac = Approximate(finitediff.DefaultStep)
	}
	jf := jac.resolve(f)
	logger := n.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}

	x := x0.Clone()
	r := math.NaN()
	for iter := 0; iter < n.MaxIter; iter++ {
		fx := f(x)

		if r = dynamo.Norm(fx); r < n.Tol {
			level.Debug(logger).Log("msg", "converged", "iterations", iter, "residual", r, "jacobian", jac)
			return Result{X: x, Iterations: iter, Residual: r, Converged: true}, nil
		}

		J := jf(x)

		rhs := make(dynamo.State, len(fx))
		for i, v := range fx {
			rhs[i] = -v
		}
		delta := linalg.Solve(J, rhs)

		for i := range x {
			x[i] += delta[i]
		}
	}

	res := Result{X: x, Iterations: max(n.MaxIter, 0), Residual: r}
	level.Debug(logger).Log("msg", "max iterations reached", "iterations", n.MaxIter, "residual", r, "jacobian", jac)
	if n.Strict {
		return res, fmt.Errorf("newton: residual %g before the last of %d iterations: %w", r, n.MaxIter, dynamo.ErrDidNotConverge)
	}
	return res, nil
}

// Solve is Run returning only the final iterate.
func (n *NewtonRaphson) Solve(f dynamo.Residual, x0 dynamo.State) (dynamo.State, error) {
	res, err := n.Run(f, x0)
	return res.X, err
}

// Solve finds a root of f from x0 with the default budget and tolerance.
// The result is not checked for convergence.
func Solve(f dynamo.Residual, x0 dynamo.State, jac Jacobian) dynamo.State {
	nr := NewNewtonRaphson()
	if jac != nil {
		nr.Jacobian = jac
	}
	x, _ := nr.Solve(f, x0)
	return x
}
