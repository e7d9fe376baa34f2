package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/simfoundry/internal/analysis"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/export"
	"github.com/san-kum/simfoundry/internal/storage"
	"github.com/san-kum/simfoundry/internal/viz"
)

const maxPlottedComponents = 6

// openRun loads a stored run. The ID "latest" selects the newest run.
func openRun(runID string) (*storage.RunMetadata, *dynamo.Solution, error) {
	st := storage.New(dataDir)
	if runID == "latest" {
		id, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = id
	}

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load run: %w", err)
	}
	sol, err := st.LoadSolution(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load states: %w", err)
	}
	return meta, sol, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tINTEGRATOR\tTIME\tH\tSTEPS\tSTATUS")
	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "diverged"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%d\t%s\n",
			r.ID, r.Model, r.Integrator, r.Timestamp.Format("2006-01-02 15:04:05"), r.H, r.Steps, status)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, sol, err := openRun(args[0])
	if err != nil {
		return err
	}
	if sol.Len() < 2 {
		return fmt.Errorf("run %s: not enough samples to plot", meta.ID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s / %s, t=[%g, %g]\n\n", meta.Model, meta.Integrator, sol.T[0], sol.T[sol.Len()-1])

	dims := min(sol.Dim(), maxPlottedComponents)
	for i := 0; i < dims; i++ {
		graph := asciigraph.Plot(sol.Component(i),
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("y%d", i)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	if sol.Dim() > dims {
		fmt.Fprintf(out, "(%d more components not shown)\n", sol.Dim()-dims)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, sol, err := openRun(args[0])
	if err != nil {
		return err
	}

	if poincare >= 0 {
		section, err := analysis.NewPoincareSection(sol, poincare, sectionLevel, xAxis, yAxis)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s poincaré section at y%d = %g: y%d vs y%d\n", meta.Model, poincare, sectionLevel, yAxis, xAxis)
		fmt.Fprintf(out, "crossings: %d\n\n", len(section.Points))
		fmt.Fprintln(out, analysis.PoincareSectionToASCII(section, 60, 20))
		return nil
	}

	portrait, err := analysis.NewPhasePortrait(sol, xAxis, yAxis)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s phase portrait: y%d vs y%d\n\n", meta.Model, yAxis, xAxis)
	fmt.Fprint(out, analysis.PhasePortraitToASCII(portrait, 60, 20))
	return nil
}

func spectrumPlot(cmd *cobra.Command, args []string) error {
	meta, sol, err := openRun(args[0])
	if err != nil {
		return err
	}

	ps, err := analysis.PowerSpectrum(sol, component)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	dominant := ps.Dominant()
	fmt.Fprintf(out, "%s y%d power spectrum\n", meta.Model, component)
	fmt.Fprintf(out, "  dominant frequency: %.6g (±%.2g)\n", dominant, ps.Resolution())
	if dominant > 0 {
		fmt.Fprintf(out, "  period:             %.6g\n", 1/dominant)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(ps.Power,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("power, 0 to %.3g", ps.Freqs[len(ps.Freqs)-1])),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, sol, err := openRun(args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return storage.WriteCSV(cmd.OutOrStdout(), sol.T, sol.Rows())
	}
	if err := storage.ExportCSV(args[1], sol.T, sol.Rows()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", meta.ID, args[1])
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, sol, err := openRun(args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return storage.ExportJSON(cmd.OutOrStdout(), meta, sol)
	}
	if err := storage.ExportJSONFile(args[1], meta, sol); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", meta.ID, args[1])
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, sol, err := openRun(args[0])
	if err != nil {
		return err
	}

	portrait, err := analysis.NewPhasePortrait(sol, xAxis, yAxis)
	if err != nil {
		return err
	}

	var svg string
	if braille {
		c := viz.NewCanvas(80, 40)
		c.Plot(sol.Component(xAxis), sol.Component(yAxis))
		svg = export.CanvasToSVG(c, 4)
	} else {
		svg = export.TrajectoryToSVG(portrait.Points, 800, 600, "#00d7ff")
	}
	if svg == "" {
		return fmt.Errorf("run %s: not enough finite samples to draw", meta.ID)
	}

	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", meta.ID, args[1])
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	meta, sol, err := openRun(args[0])
	if err != nil {
		return err
	}

	info := []viz.Field{
		{Label: "run", Value: meta.ID},
		{Label: "integrator", Value: meta.Integrator},
		{Label: "h", Value: fmt.Sprintf("%g", meta.H)},
	}
	if meta.Error != "" {
		info = append(info, viz.Field{Label: "error", Value: meta.Error})
	}

	title := strings.Join([]string{meta.Model, meta.Integrator}, " / ")
	p := tea.NewProgram(viz.NewViewer(title, sol, info, meta.Metrics), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
