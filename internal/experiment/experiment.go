package experiment

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/san-kum/demsim/internal/config"
	"github.com/san-kum/demsim/internal/dem"
	"github.com/san-kum/demsim/internal/metrics"
	"github.com/san-kum/demsim/internal/snapshot"
)

type Result struct {
	Name    string
	Time    float64
	Stats   dem.Stats
	Metrics map[string]float64
	Elapsed time.Duration
}

// Experiment binds a validated scenario to a simulator and its metrics.
type Experiment struct {
	cfg       *config.Config
	simulator *dem.Simulator
	metrics   []metrics.Metric
	logger    *log.Logger
}

func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	law, err := reg.GetForceLaw(cfg.ForceLaw, cfg.Stiffness, cfg.Damping)
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	ps, walls, params := cfg.Build()
	e := &Experiment{
		cfg:       cfg,
		simulator: dem.New(ps, walls, params, law, integ),
		metrics:   DefaultMetrics(walls, params.Gravity, law),
		logger:    log.New(io.Discard, "", 0),
	}

	for _, m := range e.metrics {
		e.simulator.AddObserver(m)
	}
	e.simulator.AddObserver(dem.ObserverFunc(func(t float64, _ []dem.Particle) {
		e.logger.Printf("t=%g", t)
	}))

	return e, nil
}

// SetLogger replaces the progress logger, which discards by default.
func (e *Experiment) SetLogger(l *log.Logger) {
	e.logger = l
}

func (e *Experiment) AddObserver(o dem.Observer) {
	e.simulator.AddObserver(o)
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

// GetSimulator returns the underlying simulator for inspection.
func (e *Experiment) GetSimulator() *dem.Simulator {
	return e.simulator
}

// Run advances the scenario to t_max, streaming snapshots to out when it
// is non-nil. The result is filled in even when Run stops early.
func (e *Experiment) Run(ctx context.Context, out io.Writer) (*Result, error) {
	var w dem.SnapshotWriter
	if out != nil {
		sw := snapshot.NewWriter(out)
		sw.Precision = e.cfg.Precision
		w = sw
	}

	start := time.Now()
	stats, err := e.simulator.Run(ctx, w)

	res := &Result{
		Name:    e.cfg.Name,
		Time:    e.simulator.Time(),
		Stats:   stats,
		Metrics: make(map[string]float64, len(e.metrics)),
		Elapsed: time.Since(start),
	}
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, err
}
