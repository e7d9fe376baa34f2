package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return Norm(s)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Norm returns the Euclidean norm of v. An empty vector has norm 0.
func Norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Matrix is a dense row-major matrix.
type Matrix [][]float64

// Clone deep-copies every row.
func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = make([]float64, len(row))
		copy(c[i], row)
	}
	return c
}

// Dims reports the row count and the length of the first row.
func (m Matrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Derivative is the right-hand side of dy/dt = f(t, y).
type Derivative func(t float64, y State) State

// Residual is a vector function whose root is sought.
type Residual func(x State) State

// JacobianFunc returns the len(x) × len(x) Jacobian of a Residual at x.
type JacobianFunc func(x State) Matrix

// System is implemented by models that carry their own derivative.
type System interface {
	Derive(t float64, y State) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(y State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Solution is a time grid and the state trajectory sampled on it.
type Solution struct {
	T []float64
	Y []State
}

func NewSolution(samples int) *Solution {
	return &Solution{
		T: make([]float64, samples),
		Y: make([]State, samples),
	}
}

func (s *Solution) Len() int { return len(s.T) }

// Dim is the state dimension, taken from the first sample.
func (s *Solution) Dim() int {
	if len(s.Y) == 0 {
		return 0
	}
	return len(s.Y[0])
}

func (s *Solution) Final() (float64, State) {
	if len(s.T) == 0 {
		return 0, nil
	}
	last := len(s.T) - 1
	return s.T[last], s.Y[last]
}

// Component extracts the j-th state component over time.
func (s *Solution) Component(j int) []float64 {
	out := make([]float64, len(s.Y))
	for i, y := range s.Y {
		if j < len(y) {
			out[i] = y[j]
		}
	}
	return out
}

// Rows returns the trajectory as plain slices for serializers.
func (s *Solution) Rows() [][]float64 {
	rows := make([][]float64, len(s.Y))
	for i, y := range s.Y {
		rows[i] = y
	}
	return rows
}

func (s *Solution) Validate() error {
	if len(s.T) != len(s.Y) {
		return fmt.Errorf("solution has %d times and %d states: %w", len(s.T), len(s.Y), ErrDimensionMismatch)
	}
	n := s.Dim()
	for i, y := range s.Y {
		if len(y) != n {
			return fmt.Errorf("sample %d has dimension %d, want %d: %w", i, len(y), n, ErrDimensionMismatch)
		}
	}
	return nil
}

// FirstInvalid returns the index of the first sample holding NaN or Inf, or -1.
func (s *Solution) FirstInvalid() int {
	for i, y := range s.Y {
		if !y.IsValid() {
			return i
		}
	}
	return -1
}
