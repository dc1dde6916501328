package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/demsim/internal/experiment"
	"github.com/san-kum/demsim/internal/export"
	"github.com/san-kum/demsim/internal/optim"
	"github.com/san-kum/demsim/internal/storage"
)

func sweepScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args[0])
	if err != nil {
		return err
	}

	var axes []optim.Axis
	for _, a := range []optim.Axis{
		{Name: "stiffness", Values: sweepStiffness},
		{Name: "damping", Values: sweepDamping},
		{Name: "dt", Values: sweepDt},
	} {
		if len(a.Values) > 0 {
			axes = append(axes, a)
		}
	}
	if len(axes) == 0 {
		return fmt.Errorf("nothing to sweep: set --stiffness, --damping or --timestep")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(axes, sweepWorkers)
	fmt.Printf("sweeping %s over %d points...\n\n", cfg.Name, len(g.Points()))

	points, best, err := g.Search(ctx, cfg, experiment.NewRegistry(), sweepMetric)
	if points == nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(axes)+3)
	for _, a := range axes {
		header = append(header, strings.ToUpper(a.Name))
	}
	header = append(header, strings.ToUpper(sweepMetric), "STEPS", "")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i, p := range points {
		row := make([]string, 0, len(header))
		for _, a := range axes {
			row = append(row, fmt.Sprintf("%g", p.Params[a.Name]))
		}
		if v, ok := p.Value(sweepMetric); ok {
			row = append(row, fmt.Sprintf("%.6g", v))
		} else if p.Err != nil {
			row = append(row, "error: "+p.Err.Error())
		} else {
			row = append(row, "n/a")
		}
		steps := 0
		if p.Result != nil {
			steps = p.Result.Stats.Steps
		}
		mark := ""
		if i == best {
			mark = "*"
		}
		row = append(row, fmt.Sprintf("%d", steps), mark)
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best >= 0 {
		names := make([]string, 0, len(points[best].Params))
		for name := range points[best].Params {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s=%g", name, points[best].Params[name])
		}
		fmt.Printf("\nbest: %s\n", strings.Join(parts, " "))
	}
	return err
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	var axes export.Axes
	switch renderPlane {
	case "xz":
		axes = export.XZ
	case "xy":
		axes = export.XY
	default:
		return fmt.Errorf("unknown plane: %s (xz, xy)", renderPlane)
	}

	frames, err := storage.New(dataDir).LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no snapshots", runID)
	}

	out := renderOut
	if out == "" {
		out = runID + ".svg"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if renderTrack >= 0 {
		err = export.TrackToSVG(f, frames, renderTrack, axes, renderWidth, renderWidth*2/3, "#00ff88")
	} else {
		idx := renderFrame
		if idx < 0 {
			idx += len(frames)
		}
		if idx < 0 || idx >= len(frames) {
			return fmt.Errorf("frame %d out of range, run has %d snapshots", renderFrame, len(frames))
		}
		err = export.FrameToSVG(f, frames[idx], axes, renderWidth)
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)
	return f.Close()
}
