package experiment

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/demsim/internal/dem"
	"github.com/san-kum/demsim/internal/integrators"
	"github.com/san-kum/demsim/internal/metrics"
)

type Registry struct {
	forceLaws   map[string]func(k, gamma float64) dem.ForceLaw
	integrators map[string]func() dem.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		forceLaws:   make(map[string]func(k, gamma float64) dem.ForceLaw),
		integrators: make(map[string]func() dem.Integrator),
	}

	r.forceLaws["linear"] = func(k, gamma float64) dem.ForceLaw {
		return dem.LinearSpringDashpot{K: k, Gamma: gamma}
	}
	r.forceLaws["hertz"] = func(k, gamma float64) dem.ForceLaw {
		return dem.Hertzian{K: k, Gamma: gamma}
	}

	r.integrators["euler"] = func() dem.Integrator { return integrators.NewEuler() }
	r.integrators["symplectic"] = func() dem.Integrator { return integrators.NewSymplecticEuler() }

	return r
}

func (r *Registry) GetForceLaw(name string, k, gamma float64) (dem.ForceLaw, error) {
	fn, ok := r.forceLaws[name]
	if !ok {
		return nil, fmt.Errorf("unknown force law: %s", name)
	}
	return fn(k, gamma), nil
}

func (r *Registry) GetIntegrator(name string) (dem.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListForceLaws() []string {
	return sortedKeys(r.forceLaws)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

// DefaultMetrics are attached to every experiment.
func DefaultMetrics(walls []dem.Wall, gravity mgl64.Vec3, law dem.ForceLaw) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewKinetic(),
		metrics.NewEnergyDrift(walls, gravity, law),
		metrics.NewStability(),
		metrics.NewMaxOverlap(walls),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
