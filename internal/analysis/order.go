package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/integrators"
)

// Exact is a closed-form solution y(t).
type Exact func(t float64) dynamo.State

// GlobalError integrates with h and returns ‖y_N − exact(t_N)‖₂ at the
// last grid point.
func GlobalError(s integrators.Stepper, f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64, exact Exact) (float64, error) {
	sol, err := integrators.Integrate(s, f, t0, t1, y0, h)
	if err != nil {
		return 0, err
	}
	tf, yf := sol.Final()
	return yf.Sub(exact(tf)).Norm(), nil
}

// ObservedOrder estimates p from the global errors at h and h/2.
func ObservedOrder(s integrators.Stepper, f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64, exact Exact) (float64, error) {
	e1, err := GlobalError(s, f, t0, t1, y0, h, exact)
	if err != nil {
		return 0, err
	}
	e2, err := GlobalError(s, f, t0, t1, y0, h/2, exact)
	if err != nil {
		return 0, err
	}
	return math.Log2(e1 / e2), nil
}

// RichardsonOrder estimates p from three runs at h, h/2 and h/4 as
// log2(‖y_h − y_{h/2}‖ / ‖y_{h/2} − y_{h/4}‖). All three grids must end at
// the same time, so h should divide t1 − t0.
func RichardsonOrder(s integrators.Stepper, f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64) (float64, error) {
	finals := make([]dynamo.State, 3)
	times := make([]float64, 3)
	for i := range finals {
		sol, err := integrators.Integrate(s, f, t0, t1, y0, h/math.Pow(2, float64(i)))
		if err != nil {
			return 0, err
		}
		times[i], finals[i] = sol.Final()
	}

	for _, tf := range times[1:] {
		if math.Abs(tf-times[0]) > 1e-9*math.Max(1, math.Abs(times[0])) {
			return 0, fmt.Errorf("richardson: grids end at %g and %g: %w", times[0], tf, dynamo.ErrInvalidStep)
		}
	}

	d1 := finals[0].Sub(finals[1]).Norm()
	d2 := finals[1].Sub(finals[2]).Norm()
	return math.Log2(d1 / d2), nil
}
