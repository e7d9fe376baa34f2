// Package finitediff approximates derivatives of vector functions.
package finitediff

import "github.com/san-kum/simfoundry/internal/dynamo"

// DefaultStep is the forward-difference step used when none is given.
const DefaultStep = 1e-8

// Jacobian approximates the Jacobian of f at x by forward differences:
//
//	J[i][j] ≈ (f_i(x + h·e_j) − f_i(x)) / h
//
// f is evaluated len(x)+1 times. The result has len(f(x)) rows and len(x)
// columns; a dimension-changing f gives a non-square matrix. h <= 0 selects
// DefaultStep. Neither x nor the vectors f returns are modified.
func Jacobian(f dynamo.Residual, x dynamo.State, h float64) dynamo.Matrix {
	if !(h > 0) {
		h = DefaultStep
	}

	// f may hand back the same buffer on every call
	fx := f(x).Clone()
	n := len(x)
	J := make(dynamo.Matrix, len(fx))
	for i := range J {
		J[i] = make([]float64, n)
	}

	for j := 0; j < n; j++ {
		xp := x.Clone()
		xp[j] += h
		fxp := f(xp)

		for i := range J {
			J[i][j] = (fxp[i] - fx[i]) / h
		}
	}

	return J
}
