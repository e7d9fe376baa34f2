package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/simfoundry/internal/automation"
	"github.com/san-kum/simfoundry/internal/experiment"
	"github.com/san-kum/simfoundry/internal/optim"
	"github.com/san-kum/simfoundry/internal/storage"
)

var (
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	metricName   string
	perturbation float64
	trials       int
	seed         int64
	grid         []string
)

func addBatchCommands(rootCmd *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one model parameter over a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addIntegrationFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	sweepCmd.Flags().StringVar(&sweepParam, "name", "", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "max_norm", "metric to rank by")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	_ = sweepCmd.MarkFlagRequired("name")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "run trials from randomly perturbed initial states",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addIntegrationFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 0.01, "maximum offset per component")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = clock)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search model parameters for the smallest metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	addIntegrationFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "grid axis name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")
	_ = tuneCmd.MarkFlagRequired("grid")

	rootCmd.AddCommand(scenarioCmd, sweepCmd, monteCarloCmd, tuneCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	outcomes, runErr := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(logger), logger)

	fmt.Fprintf(out, "scenario: %s\n", sc.Name)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLABEL\tRUN\tSAMPLES\tSTATUS")
	for i, o := range outcomes {
		status := "ok"
		if o.Err != nil {
			status = "diverged"
		}
		runID := "-"
		if o.Result != nil && o.Result.Solution.Len() > 0 {
			if runID, err = st.Save(o.Metadata, o.Result.Solution); err != nil {
				return fmt.Errorf("save step %d: %w", i+1, err)
			}
		}
		samples := 0
		if o.Result != nil {
			samples = o.Result.Solution.Len()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, o.Label, runID, samples, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{Base: cfg, Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(logger), workers, logger)
	if err != nil {
		return err
	}

	best := automation.Best(results, metricName)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\t%s\tSTATUS\n", sweepParam, metricName)
	for i, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "diverged"
		}
		if i == best {
			status += " *"
		}
		fmt.Fprintf(w, "%g\t%s\t%.6g\t%s\n", r.ParamValue, formatState(r.Final), r.Metrics[metricName], status)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{Base: cfg, Perturbation: perturbation, Trials: trials, Seed: seed}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry(logger), workers, logger)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Fprintf(out, "%s: %d trials, perturbation %g\n", cfg.Model, len(results), perturbation)
	fmt.Fprintf(out, "  stable:   %d\n", stable)
	fmt.Fprintf(out, "  unstable: %d\n", unstable)
	fmt.Fprintf(out, "  spread:   %.6g\n", automation.Spread(results))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	names, ranges, err := optim.ParseGrid(grid)
	if err != nil {
		return err
	}
	search, err := optim.NewGridSearch(names, ranges, logger)
	if err != nil {
		return err
	}

	best, err := search.Search(cmd.Context(), optim.ConfigBuilder(experiment.NewRegistry(logger), cfg, logger), metricName)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "best of %d points: %s = %.6g\n", best.Evaluated, metricName, best.Value)
	for _, name := range names {
		fmt.Fprintf(out, "  %s = %g\n", name, best.Params[name])
	}
	return nil
}
