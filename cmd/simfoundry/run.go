package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/experiment"
	"github.com/san-kum/simfoundry/internal/metrics"
	"github.com/san-kum/simfoundry/internal/storage"
)

// buildConfig layers the defaults, a preset, a config file and explicitly
// set flags, in that order.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for model %q", preset, model)
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("h") {
		cfg.H = h
	}
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("t1") {
		cfg.T1 = t1
	}
	if flags.Changed("init") {
		cfg.InitState = append([]float64(nil), initState...)
	}
	if flags.Changed("param") {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for name, raw := range params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("param %s=%q: %w", name, raw, dynamo.ErrInvalidArgument)
			}
			cfg.Params[name] = v
		}
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry(logger)); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	res, runErr := exp.Run(cmd.Context())
	if res == nil {
		return fmt.Errorf("run: %w", runErr)
	}

	var stepErr *dynamo.StepError
	if runErr != nil && !errors.As(runErr, &stepErr) {
		return fmt.Errorf("run: %w", runErr)
	}

	// An empty prefix cannot be stored.
	if res.Solution.Len() == 0 {
		return fmt.Errorf("run: %w", runErr)
	}

	runID, err := st.Save(exp.Metadata(res, runErr), res.Solution)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	fmt.Fprintf(out, "run: %s\n", runID)
	fmt.Fprintf(out, "  model:      %s\n", res.Model)
	fmt.Fprintf(out, "  integrator: %s\n", res.Integrator)
	fmt.Fprintf(out, "  samples:    %d\n", res.Solution.Len())
	fmt.Fprintf(out, "  elapsed:    %v\n", res.Elapsed)
	printMetrics(out, res.Metrics)

	if runErr != nil {
		return fmt.Errorf("run %s stored truncated: %w", runID, runErr)
	}
	return nil
}

func printMetrics(out io.Writer, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "metrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-14s %.6g\n", name+":", m[name])
	}
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	outcomes, runErr := experiment.Compare(cmd.Context(), experiment.NewRegistry(logger), cfg, args[1:], workers, logger)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSAMPLES\tT_FINAL\tY_FINAL\tMAX_NORM\tELAPSED\tSTATUS")
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\tskipped\n", o.Name)
		case o.Solution == nil || o.Solution.Len() == 0:
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\t%v\n", o.Name, o.Elapsed, o.Err)
		default:
			tf, yf := o.Solution.Final()
			m := metrics.Evaluate(o.Solution, metrics.NewMaxNorm())
			status := "ok"
			if o.Err != nil {
				status = o.Err.Error()
			}
			fmt.Fprintf(w, "%s\t%d\t%.4g\t%s\t%.6g\t%v\t%s\n",
				o.Name, o.Solution.Len(), tf, formatState(yf), m["max_norm"], o.Elapsed, status)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func observedOrder(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger()

	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	cfg.Integrator = args[1]

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry(logger)); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	est, err := exp.Order()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s on %s (h=%g, t=[%g, %g])\n", cfg.Integrator, cfg.Model, cfg.H, cfg.T0, cfg.T1)
	fmt.Fprintf(out, "  observed order: %.3f (%s)\n", est.Order, est.Method)
	return nil
}

func formatState(y dynamo.State) string {
	s := "["
	for i, v := range y {
		if i > 0 {
			s += " "
		}
		s += strconv.FormatFloat(v, 'g', 6, 64)
	}
	return s + "]"
}
