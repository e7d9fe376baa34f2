package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// Euler is the explicit (forward) Euler method.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f dynamo.Derivative, t float64, y dynamo.State, h float64) dynamo.State {
	dydt := f(t, y)
	result := make(dynamo.State, len(y))
	floats.AddScaledTo(result, y, h, dydt)
	return result
}

func (e *Euler) Solve(f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64) (*dynamo.Solution, error) {
	return Integrate(e, f, t0, t1, y0, h)
}
