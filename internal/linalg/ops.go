package linalg

import "github.com/san-kum/simfoundry/internal/dynamo"

// Identity returns the n×n identity matrix.
func Identity(n int) dynamo.Matrix {
	m := make(dynamo.Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

// MatVec returns A·x.
func MatVec(A dynamo.Matrix, x dynamo.State) dynamo.State {
	out := make(dynamo.State, len(A))
	for i, row := range A {
		sum := 0.0
		for j, v := range row {
			sum += v * x[j]
		}
		out[i] = sum
	}
	return out
}

// Residual returns A·x − b.
func Residual(A dynamo.Matrix, x, b dynamo.State) dynamo.State {
	r := MatVec(A, x)
	for i := range r {
		r[i] -= b[i]
	}
	return r
}
