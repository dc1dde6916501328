package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/demsim/internal/analysis"
	"github.com/san-kum/demsim/internal/config"
	"github.com/san-kum/demsim/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tSTEPS\tSNAPSHOTS\tT\tELAPSED\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = run.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%g\t%.2fs\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Stats.Steps,
			run.Stats.Snapshots,
			run.SimTime,
			run.Elapsed,
			status,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func loadSummary(runID string) (*storage.RunMetadata, analysis.Summary, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, analysis.Summary{}, err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, analysis.Summary{}, err
	}
	return meta, analysis.Summarize(frames), nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, sum, err := loadSummary(args[0])
	if err != nil {
		return err
	}

	if sum.Frames < 2 {
		return fmt.Errorf("not enough snapshots to plot: %d", sum.Frames)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Name)
	fmt.Printf("snapshots: %d (t=%g to %g)\n\n", sum.Frames, sum.Start, sum.End)

	n := sum.Frames
	if sum.FirstNonFinite >= 0 {
		n = sum.FirstNonFinite
		fmt.Println(warnStyle.Render(fmt.Sprintf("non-finite state from snapshot %d, plotting the first %d", sum.FirstNonFinite, n)))
		if n < 2 {
			return nil
		}
	}

	series := []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy (unit density)", sum.Kinetic[:n]},
		{"mean speed", sum.MeanSpeed[:n]},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, sum, err := loadSummary(args[0])
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(meta.ID))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "snapshots\t%d\n", sum.Frames)
	fmt.Fprintf(w, "span\t%g .. %g\n", sum.Start, sum.End)
	fmt.Fprintf(w, "particles\t%d\n", sum.Particles)
	fmt.Fprintf(w, "final mean speed\t%.6g\n", sum.FinalSpeedMean)
	fmt.Fprintf(w, "final speed stddev\t%.6g\n", sum.FinalSpeedStdDev)
	fmt.Fprintf(w, "final max speed\t%.6g\n", sum.FinalMaxSpeed)
	fmt.Fprintf(w, "final mean height\t%.6g\n", sum.FinalMeanHeight)
	if sum.Frames > 0 {
		fmt.Fprintf(w, "final kinetic energy\t%.6g\n", sum.Kinetic[sum.Frames-1])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if sum.FirstNonFinite >= 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("state became non-finite at snapshot %d (t=%g)",
			sum.FirstNonFinite, sum.Times[sum.FirstNonFinite])))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tWALLS\tDT\tT_MAX\tFORCE\tINTEG")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%s\t%s\n",
			name,
			cfg.NumParticles(),
			len(cfg.Walls),
			cfg.Dt,
			cfg.TMax,
			cfg.ForceLaw,
			cfg.Integrator,
		)
	}

	return w.Flush()
}
