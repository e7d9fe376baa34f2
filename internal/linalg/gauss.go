package linalg

import (
	"fmt"
	"math"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// DefaultPivotTolerance is the pivot magnitude at or below which SolveStrict
// treats a matrix as singular.
const DefaultPivotTolerance = 1e-14

const (
	opSolve       = "Solve"
	opSolveStrict = "SolveStrict"
)

// pivotCheck inspects the pivot chosen for column col. A non-nil error aborts
// the elimination.
type pivotCheck func(col int, pivot float64) error

// Solve returns x with A·x ≈ b using Gaussian elimination with partial
// pivoting. A and b are copied; the caller's data is never modified.
//
// No singularity check is made: a zero or vanishing pivot yields Inf or NaN
// entries. Use SolveStrict to have that reported.
func Solve(A dynamo.Matrix, b dynamo.State) dynamo.State {
	x, _ := eliminate(A, b, nil)
	return x
}

// SolveStrict is Solve with shape validation and a singularity check:
// a pivot with |pivot| <= pivotTol, or a NaN pivot, returns ErrSingularMatrix.
// A negative pivotTol selects DefaultPivotTolerance.
func SolveStrict(A dynamo.Matrix, b dynamo.State, pivotTol float64) (dynamo.State, error) {
	if pivotTol < 0 {
		pivotTol = DefaultPivotTolerance
	}
	if err := validateSystem(A, b); err != nil {
		return nil, fmt.Errorf("%s: %w", opSolveStrict, err)
	}

	x, err := eliminate(A, b, func(col int, pivot float64) error {
		if math.IsNaN(pivot) || math.Abs(pivot) <= pivotTol {
			return fmt.Errorf("%s: pivot %g in column %d: %w", opSolveStrict, pivot, col, dynamo.ErrSingularMatrix)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}

func eliminate(A dynamo.Matrix, b dynamo.State, check pivotCheck) (dynamo.State, error) {
	a := A.Clone()
	rhs := b.Clone()
	n := len(a)
	x := make(dynamo.State, n)

	// forward elimination
	for i := 0; i < n; i++ {
		maxRow := i
		for k := i + 1; k < n; k++ {
			if math.Abs(a[k][i]) > math.Abs(a[maxRow][i]) {
				maxRow = k
			}
		}
		a[i], a[maxRow] = a[maxRow], a[i]
		rhs[i], rhs[maxRow] = rhs[maxRow], rhs[i]

		if check != nil {
			if err := check(i, a[i][i]); err != nil {
				return nil, err
			}
		}

		for k := i + 1; k < n; k++ {
			factor := a[k][i] / a[i][i]
			for j := i; j < n; j++ {
				a[k][j] -= factor * a[i][j]
			}
			rhs[k] -= factor * rhs[i]
		}
	}

	// back substitution
	for i := n - 1; i >= 0; i-- {
		x[i] = rhs[i]
		for j := i + 1; j < n; j++ {
			x[i] -= a[i][j] * x[j]
		}
		x[i] /= a[i][i]
	}

	return x, nil
}

func validateSystem(A dynamo.Matrix, b dynamo.State) error {
	n := len(A)
	for i, row := range A {
		if len(row) != n {
			return fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), n, dynamo.ErrDimensionMismatch)
		}
	}
	if len(b) != n {
		return fmt.Errorf("rhs has length %d, want %d: %w", len(b), n, dynamo.ErrDimensionMismatch)
	}
	return nil
}
