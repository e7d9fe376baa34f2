package main

import (
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/experiment"
)

var (
	dataDir string
	verbose bool

	// run and compare
	integrator string
	h          float64
	t0         float64
	t1         float64
	initState  []float64
	params     map[string]string
	configFile string
	preset     string
	workers    int

	// plots
	xAxis        int
	yAxis        int
	plotWidth    int
	plotHeight   int
	braille      bool
	component    int
	poincare     int
	sectionLevel float64

	// solve and roots
	strict   bool
	pivotTol float64
	maxIter  int
	tol      float64
	fdStep   float64
	numeric  bool
)

// main registers the commands and exits with status 1 if one fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "simfoundry",
		Short:        "numerical ODE, linear and nonlinear solver lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".simfoundry", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addIntegrationFlags(runCmd)
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, backward-euler, rk4)")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "run one model under several integrators in parallel",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addIntegrationFlags(compareCmd)
	compareCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")

	orderCmd := &cobra.Command{
		Use:   "order [model] [integrator]",
		Short: "estimate the observed order of accuracy",
		Args:  cobra.ExactArgs(2),
		RunE:  observedOrder,
	}
	addIntegrationFlags(orderCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot each state component against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "power spectrum and dominant frequency of one component",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumPlot,
	}
	spectrumCmd.Flags().IntVar(&component, "component", 0, "state index")
	spectrumCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	spectrumCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	addAxisFlags(phaseCmd)
	phaseCmd.Flags().IntVar(&poincare, "poincare", -1, "plot the Poincaré section where this state index crosses --level upwards")
	phaseCmd.Flags().Float64Var(&sectionLevel, "level", 0, "section level for --poincare")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [path]",
		Short: "export a run as CSV (stdout without path)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [path]",
		Short: "export a run as JSON (stdout without path)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [path]",
		Short: "export a phase trajectory as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	addAxisFlags(exportSVGCmd)
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render through the braille canvas")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}

	solveCmd := &cobra.Command{
		Use:   "solve [system.yaml]",
		Short: "solve a dense linear system A·x = b",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveLinear,
	}
	solveCmd.Flags().BoolVar(&strict, "strict", false, "fail on a singular matrix")
	solveCmd.Flags().Float64Var(&pivotTol, "pivot-tol", -1, "strict pivot tolerance (negative = default)")

	rootsCmd := &cobra.Command{
		Use:   "roots [system]",
		Short: "find a root of a built-in nonlinear system with Newton-Raphson",
		Args:  cobra.ExactArgs(1),
		RunE:  findRoots,
	}
	rootsCmd.Flags().IntVar(&maxIter, "max-iter", 100, "iteration budget")
	rootsCmd.Flags().Float64Var(&tol, "tol", 1e-10, "residual tolerance")
	rootsCmd.Flags().BoolVar(&strict, "strict", false, "fail when the budget is exhausted")
	rootsCmd.Flags().Float64Var(&fdStep, "fd-step", 1e-8, "forward-difference step")
	rootsCmd.Flags().BoolVar(&numeric, "numeric-only", false, "skip the analytic Jacobian")
	rootsCmd.Flags().Float64SliceVar(&initState, "guess", nil, "initial guess")
	rootsCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml, newton section)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Fprintf(out, "  %-12s %s h=%g t=[%g, %g]\n", p, cfg.Integrator, cfg.H, cfg.T0, cfg.T1)
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models, integrators and root-finding systems",
		RunE:  listModels,
	}

	rootCmd.AddCommand(runCmd, compareCmd, orderCmd, listCmd, plotCmd, spectrumCmd, phaseCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, viewCmd, solveCmd, rootsCmd,
		presetsCmd, modelsCmd)
	addBatchCommands(rootCmd)
	return rootCmd
}

func addIntegrationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&h, "h", config.DefaultH, "step size")
	cmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	cmd.Flags().Float64Var(&t1, "t1", config.DefaultT1, "end time")
	cmd.Flags().Float64SliceVar(&initState, "init", nil, "initial state (default: model's)")
	cmd.Flags().StringToStringVar(&params, "param", nil, "model parameter name=value")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addAxisFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
}

// newLogger writes logfmt to stderr, at debug level only with --verbose.
func newLogger() kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func listModels(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reg := experiment.NewRegistry(nil)

	fmt.Fprintln(out, "models:")
	for _, m := range reg.ListModels() {
		fmt.Fprintf(out, "  %s\n", m)
	}
	fmt.Fprintln(out, "integrators:")
	for _, i := range reg.ListIntegrators() {
		fmt.Fprintf(out, "  %s\n", i)
	}
	fmt.Fprintln(out, "root systems:")
	for _, name := range rootSystems() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
