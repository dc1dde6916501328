package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/san-kum/demsim/internal/config"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	tMax       float64
	saveCount  int
	precision  int
	forceLaw   string
	integrator string
	toStdout   bool
	benchSizes []int
	benchSteps int
	benchSeed  int64

	sweepStiffness []float64
	sweepDamping   []float64
	sweepDt        []float64
	sweepMetric    string
	sweepWorkers   int

	renderFrame int
	renderTrack int
	renderPlane string
	renderOut   string
	renderWidth int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "demsim",
		Short:         "discrete element simulation of spheres and walls",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadEnv()
			if err != nil {
				return err
			}
			if env.DataDir != "" && !cmd.Flags().Changed("data") {
				dataDir = env.DataDir
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".demsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log simulation time at every snapshot")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario file or preset and store its snapshots",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&toStdout, "stdout", false, "write snapshots to stdout instead of the data directory")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot kinetic energy and mean speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize the snapshots of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time force computation for growing particle counts",
		RunE:  benchForces,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{64, 256, 1024}, "particle counts")
	benchCmd.Flags().IntVar(&benchSteps, "passes", 20, "force passes per size")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario over a parameter grid and rank a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScenario,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepStiffness, "stiffness", nil, "stiffness values")
	sweepCmd.Flags().Float64SliceVar(&sweepDamping, "damping", nil, "damping values")
	sweepCmd.Flags().Float64SliceVar(&sweepDt, "timestep", nil, "timestep values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "max_overlap", "metric to minimize")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "concurrent runs")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "write a snapshot or a particle track as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().IntVar(&renderFrame, "frame", -1, "snapshot index, negative counts from the end")
	renderCmd.Flags().IntVar(&renderTrack, "track", -1, "draw the path of this particle instead of a snapshot")
	renderCmd.Flags().StringVar(&renderPlane, "plane", "xz", "projection plane (xz, xy)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default <run_id>.svg)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 600, "image width in pixels")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, plotCmd, analyzeCmd, benchCmd, presetsCmd, sweepCmd, renderCmd)

	if err := rootCmd.Execute(); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&tMax, "t-max", config.DefaultTMax, "end time")
	cmd.Flags().IntVar(&saveCount, "save-count", config.DefaultSaveCount, "steps between snapshots")
	cmd.Flags().IntVar(&precision, "precision", config.DefaultPrecision, "significant digits in snapshots, -1 for round trip")
	cmd.Flags().StringVar(&forceLaw, "force-law", config.DefaultForceLaw, "contact force law (linear, hertz)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrate, "integrator (euler, symplectic)")
}
