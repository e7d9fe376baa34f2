package main

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/linalg"
	"github.com/san-kum/simfoundry/internal/metrics"
	"github.com/san-kum/simfoundry/internal/models"
	"github.com/san-kum/simfoundry/internal/roots"
)

func rootSystems() []string {
	return models.ListRootProblems()
}

func solveLinear(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	sys := config.DefaultLinearSystem()
	if len(args) == 1 {
		loaded, err := config.LoadLinearSystem(args[0])
		if err != nil {
			return err
		}
		sys = loaded
	}

	A, b := dynamo.Matrix(sys.A), dynamo.State(sys.B)
	if err := checkSquare(A, b); err != nil {
		return err
	}

	var x dynamo.State
	if strict {
		var err error
		if x, err = linalg.SolveStrict(A, b, pivotTol); err != nil {
			return err
		}
	} else {
		x = linalg.Solve(A, b)
	}

	fmt.Fprintf(out, "x = %s\n", formatState(x))
	fmt.Fprintf(out, "‖A·x − b‖ = %.3g\n", linalg.Residual(A, x, b).Norm())
	return nil
}

// checkSquare rejects anything but an n×n matrix with an n-vector.
func checkSquare(A dynamo.Matrix, b dynamo.State) error {
	n := len(A)
	if n == 0 || len(b) != n {
		return fmt.Errorf("matrix has %d rows, vector %d entries: %w", n, len(b), dynamo.ErrDimensionMismatch)
	}
	for i, row := range A {
		if len(row) != n {
			return fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, dynamo.ErrDimensionMismatch)
		}
	}
	return nil
}

func findRoots(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	problem, ok := models.GetRootProblem(args[0])
	if !ok {
		return fmt.Errorf("unknown system %q (have %v)", args[0], rootSystems())
	}

	nc := config.DefaultConfig().Newton
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		nc = cfg.Newton
	}

	flags := cmd.Flags()
	if flags.Changed("max-iter") {
		nc.MaxIter = maxIter
	}
	if flags.Changed("tol") {
		nc.Tol = tol
	}
	if flags.Changed("strict") {
		nc.Strict = strict
	}

	guess := problem.Guess
	if flags.Changed("guess") {
		guess = dynamo.State(initState)
		if len(guess) != len(problem.Guess) {
			return fmt.Errorf("guess has %d components, want %d: %w", len(guess), len(problem.Guess), dynamo.ErrDimensionMismatch)
		}
	}

	jacobians := []roots.Jacobian{roots.Analytic(problem.Jacobian), roots.Approximate(fdStep)}
	if numeric {
		jacobians = jacobians[1:]
	}

	fmt.Fprintf(out, "%s: %s\n", problem.Name, problem.Description)
	fmt.Fprintf(out, "  guess: %s\n", formatState(guess))

	final := metrics.NewFinalResidual(problem.F)
	for _, jac := range jacobians {
		nr := &roots.NewtonRaphson{
			MaxIter:  nc.MaxIter,
			Tol:      nc.Tol,
			Jacobian: jac,
			Strict:   nc.Strict,
			Logger:   kitlog.With(logger, "system", problem.Name, "jacobian", jac),
		}

		res, err := nr.Run(problem.F, guess)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n  %s jacobian\n", jac)
		for i, v := range res.X {
			fmt.Fprintf(out, "    x%d = %.10g\n", i, v)
		}
		fmt.Fprintf(out, "    iterations: %d\n", res.Iterations)
		final.Reset()
		final.Observe(0, res.X)
		fmt.Fprintf(out, "    residual:   %.3g\n", final.Value())
		fmt.Fprintf(out, "    converged:  %t\n", res.Converged)
		if len(problem.Root) == len(res.X) {
			fmt.Fprintf(out, "    error:      %.3g\n", res.X.Sub(problem.Root).Norm())
		}
	}
	return nil
}
