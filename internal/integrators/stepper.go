// Package integrators advances ODE initial value problems on a fixed time grid.
//
// All steppers share [Integrate]: the grid holds ceil((t1−t0)/h)+1 samples
// spaced exactly h apart, so the last sample may lie past t1. Steppers keep
// no per-call state and may be shared between goroutines.
package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// maxSteps caps the grid at about 67M samples.
const maxSteps = 1 << 26

// Stepper advances y from t to t+h. f must return a state of the same
// length as its input; the steppers panic on a dimension-changing f.
type Stepper interface {
	Name() string
	Step(f dynamo.Derivative, t float64, y dynamo.State, h float64) dynamo.State
}

// StepCount returns ceil((t1−t0)/h).
func StepCount(t0, t1, h float64) int {
	return int(math.Ceil((t1 - t0) / h))
}

// Integrate solves dy/dt = f(t, y), y(t0) = y0 on [t0, t1] with step h.
// It fails with dynamo.ErrInvalidStep for h <= 0 or a grid longer than
// 1<<26 steps, and with dynamo.ErrInvalidInterval for t1 <= t0. y0 is copied.
func Integrate(s Stepper, f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64) (*dynamo.Solution, error) {
	if !(h > 0) {
		return nil, fmt.Errorf("%s: h=%g: %w", s.Name(), h, dynamo.ErrInvalidStep)
	}
	if !(t1 > t0) {
		return nil, fmt.Errorf("%s: t0=%g t1=%g: %w", s.Name(), t0, t1, dynamo.ErrInvalidInterval)
	}
	if n := math.Ceil((t1 - t0) / h); n > maxSteps {
		return nil, fmt.Errorf("%s: %g steps requested: %w", s.Name(), n, dynamo.ErrInvalidStep)
	}

	steps := StepCount(t0, t1, h)
	sol := dynamo.NewSolution(steps + 1)
	sol.T[0] = t0
	sol.Y[0] = y0.Clone()

	for i := 0; i < steps; i++ {
		sol.Y[i+1] = s.Step(f, sol.T[i], sol.Y[i], h)
		sol.T[i+1] = sol.T[i] + h
	}

	return sol, nil
}
