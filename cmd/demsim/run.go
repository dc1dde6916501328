package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/demsim/internal/config"
	"github.com/san-kum/demsim/internal/dem"
	"github.com/san-kum/demsim/internal/experiment"
	"github.com/san-kum/demsim/internal/storage"
	"github.com/san-kum/demsim/internal/viz"
)

// loadScenario resolves arg as a YAML file, falling back to a preset name.
// Environment overrides apply on top, then explicitly set flags.
func loadScenario(cmd *cobra.Command, arg string) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(arg); err == nil {
		cfg, err = config.Load(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else if cfg = config.GetPreset(arg); cfg == nil {
		return nil, fmt.Errorf("unknown scenario: %s (not a file, presets: %v)", arg, config.ListPresets())
	}

	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("t-max") {
		cfg.TMax = tMax
	}
	if flags.Changed("save-count") {
		cfg.SaveCount = saveCount
	}
	if flags.Changed("precision") {
		cfg.Precision = precision
	}
	if flags.Changed("force-law") {
		cfg.ForceLaw = forceLaw
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}

	return cfg, cfg.Validate()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args[0])
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	if verbose {
		exp.SetLogger(log.New(os.Stderr, "", 0))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if toStdout {
		res, err := exp.Run(ctx, os.Stdout)
		printResult(os.Stderr, "", res)
		return err
	}

	st := storage.New(dataDir)
	run, err := st.Create(cfg.Name)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%d particles)...\n", cfg.Name, cfg.NumParticles())
	res, runErr := exp.Run(ctx, run.Data())
	if err := run.Finish(metadata(cfg, res, runErr)); err != nil {
		return err
	}

	printResult(os.Stdout, run.ID, res)
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args[0])
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	run, err := st.Create(cfg.Name)
	if err != nil {
		return err
	}

	res, runErr := viz.Live(context.Background(), exp, run.Data(), tea.WithAltScreen())
	if err := run.Finish(metadata(cfg, res, runErr)); err != nil {
		return err
	}

	printResult(os.Stdout, run.ID, res)

	// quitting the view before t_max is not a failure
	if errors.Is(runErr, dem.ErrCanceled) {
		fmt.Println("stopped early")
		return nil
	}
	return runErr
}

func metadata(cfg *config.Config, res *experiment.Result, runErr error) storage.RunMetadata {
	meta := storage.RunMetadata{
		Name:      cfg.Name,
		Timestamp: time.Now(),
		Scenario:  cfg,
		Particles: cfg.NumParticles(),
	}
	if res != nil {
		meta.SimTime = res.Time
		meta.Stats = res.Stats
		meta.Metrics = res.Metrics
		meta.Elapsed = res.Elapsed.Seconds()
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}

func printResult(w io.Writer, runID string, res *experiment.Result) {
	if res == nil {
		return
	}

	fmt.Fprintf(w, "completed in %v\n", res.Elapsed)
	if runID != "" {
		fmt.Fprintf(w, "run id: %s\n", runID)
	}
	fmt.Fprintf(w, "t: %g\n", res.Time)
	fmt.Fprintf(w, "steps: %d\n", res.Stats.Steps)
	fmt.Fprintf(w, "snapshots: %d\n", res.Stats.Snapshots)
	fmt.Fprintf(w, "contacts: %d wall, %d pair\n", res.Stats.WallContacts, res.Stats.PairContacts)

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, res.Metrics[name])
	}
}
