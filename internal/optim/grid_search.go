package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/demsim/internal/config"
	"github.com/san-kum/demsim/internal/experiment"
)

var ErrNoResult = errors.New("optim: no point produced the metric")

// Axis is one scenario parameter and the values tried for it.
type Axis struct {
	Name   string
	Values []float64
}

// Point is one grid cell. Err is set when the scenario was invalid or the
// run stopped early; Result may still hold partial counters then.
type Point struct {
	Params map[string]float64
	Result *experiment.Result
	Err    error
}

// Value returns the metric for the point and whether it is usable.
func (p Point) Value(metric string) (float64, bool) {
	if p.Err != nil || p.Result == nil {
		return 0, false
	}
	v, ok := p.Result.Metrics[metric]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type GridSearch struct {
	axes    []Axis
	workers int
}

// NewGridSearch runs at most workers experiments at a time; values below
// one mean one.
func NewGridSearch(axes []Axis, workers int) *GridSearch {
	return &GridSearch{axes: axes, workers: max(workers, 1)}
}

// Apply sets the named parameter on cfg.
func Apply(cfg *config.Config, name string, v float64) error {
	switch name {
	case "stiffness":
		cfg.Stiffness = v
	case "damping":
		cfg.Damping = v
	case "dt":
		cfg.Dt = v
	case "t_max":
		cfg.TMax = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// Points enumerates the grid with the last axis varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.axes) {
		*out = append(*out, current)
		return
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val
		g.enumerate(depth+1, next, out)
	}
}

// Search runs base once per grid point and returns every point along with
// the index of the one minimizing metric.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metric string) ([]Point, int, error) {
	for _, axis := range g.axes {
		if err := Apply(base.Clone(), axis.Name, 0); err != nil {
			return nil, -1, err
		}
	}

	grid := g.Points()
	points := make([]Point, len(grid))
	sem := make(chan struct{}, g.workers)

	var wg sync.WaitGroup
	for i, params := range grid {
		wg.Add(1)
		go func(idx int, params map[string]float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			points[idx] = runPoint(ctx, base, reg, params)
		}(i, params)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return points, -1, err
	}

	best, bestVal := -1, math.Inf(1)
	for i, p := range points {
		if v, ok := p.Value(metric); ok && v < bestVal {
			best, bestVal = i, v
		}
	}
	if best < 0 {
		return points, -1, fmt.Errorf("%w: %s", ErrNoResult, metric)
	}
	return points, best, nil
}

func runPoint(ctx context.Context, base *config.Config, reg *experiment.Registry, params map[string]float64) Point {
	p := Point{Params: params}

	cfg := base.Clone()
	for name, v := range params {
		if err := Apply(cfg, name, v); err != nil {
			p.Err = err
			return p
		}
	}

	exp, err := experiment.New(cfg, reg)
	if err != nil {
		p.Err = err
		return p
	}
	p.Result, p.Err = exp.Run(ctx, nil)
	return p
}
