package models

import (
	"math"
	"sort"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// RootProblem is a nonlinear system F(x) = 0 with a known root.
type RootProblem struct {
	Name        string
	Description string
	F           dynamo.Residual
	Jacobian    dynamo.JacobianFunc
	Guess       dynamo.State
	Root        dynamo.State
}

// CircleLine intersects x² + y² = 4 with x = y. From [1, 1.5] Newton
// converges to (√2, √2).
func CircleLine() RootProblem {
	return RootProblem{
		Name:        "circle",
		Description: "x² + y² − 4 = 0, x − y = 0",
		F: func(x dynamo.State) dynamo.State {
			return dynamo.State{x[0]*x[0] + x[1]*x[1] - 4.0, x[0] - x[1]}
		},
		Jacobian: func(x dynamo.State) dynamo.Matrix {
			return dynamo.Matrix{{2.0 * x[0], 2.0 * x[1]}, {1.0, -1.0}}
		},
		Guess: dynamo.State{1.0, 1.5},
		Root:  dynamo.State{math.Sqrt2, math.Sqrt2},
	}
}

// Sqrt2 is the scalar equation x² − 2 = 0 started from 1.
func Sqrt2() RootProblem {
	return RootProblem{
		Name:        "sqrt2",
		Description: "x² − 2 = 0",
		F: func(x dynamo.State) dynamo.State {
			return dynamo.State{x[0]*x[0] - 2}
		},
		Jacobian: func(x dynamo.State) dynamo.Matrix {
			return dynamo.Matrix{{2 * x[0]}}
		},
		Guess: dynamo.State{1},
		Root:  dynamo.State{math.Sqrt2},
	}
}

var rootProblems = map[string]func() RootProblem{
	"circle": CircleLine,
	"sqrt2":  Sqrt2,
}

// GetRootProblem looks up a built-in residual system by name.
func GetRootProblem(name string) (RootProblem, bool) {
	fn, ok := rootProblems[name]
	if !ok {
		return RootProblem{}, false
	}
	return fn(), true
}

func ListRootProblems() []string {
	names := make([]string, 0, len(rootProblems))
	for name := range rootProblems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
