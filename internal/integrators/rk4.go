package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// RK4 is the classical four-stage Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(f dynamo.Derivative, t float64, y dynamo.State, h float64) dynamo.State {
	n := len(y)
	stage := make(dynamo.State, n)
	half := 0.5 * h

	k1 := f(t, y)

	floats.AddScaledTo(stage, y, half, k1)
	k2 := f(t+half, stage)

	stage = make(dynamo.State, n)
	floats.AddScaledTo(stage, y, half, k2)
	k3 := f(t+half, stage)

	stage = make(dynamo.State, n)
	floats.AddScaledTo(stage, y, h, k3)
	k4 := f(t+h, stage)

	sum := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		sum[i] = k1[i] + 2*k2[i] + 2*k3[i] + k4[i]
	}

	result := make(dynamo.State, n)
	floats.AddScaledTo(result, y, h/6.0, sum)
	return result
}

func (r *RK4) Solve(f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64) (*dynamo.Solution, error) {
	return Integrate(r, f, t0, t1, y0, h)
}
