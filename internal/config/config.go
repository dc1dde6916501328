package config

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/demsim/internal/dem"
)

const (
	DefaultDt        = 1e-4
	DefaultTMax      = 1.0
	DefaultStiffness = 1e4
	DefaultSaveCount = 10
	DefaultPrecision = 6
	DefaultForceLaw  = "linear"
	DefaultIntegrate = "euler"
)

var DefaultGravity = [3]float64{0, 0, -9.81}

var ErrInvalid = errors.New("config: invalid scenario")

// Names accepted for force_law and integrator.
var (
	ForceLaws   = []string{"linear", "hertz"}
	Integrators = []string{"euler", "symplectic"}
)

type Config struct {
	Name       string           `yaml:"name" json:"name"`
	Dt         float64          `yaml:"dt" json:"dt"`
	TMax       float64          `yaml:"t_max" json:"t_max"`
	Stiffness  float64          `yaml:"stiffness" json:"stiffness"`
	Damping    float64          `yaml:"damping" json:"damping"`
	Gravity    [3]float64       `yaml:"gravity" json:"gravity"`
	SaveCount  int              `yaml:"save_count" json:"save_count"`
	ForceLaw   string           `yaml:"force_law" json:"force_law"`
	Integrator string           `yaml:"integrator" json:"integrator"`
	Precision  int              `yaml:"precision" json:"precision"`
	Particles  []ParticleConfig `yaml:"particles,omitempty" json:"particles,omitempty"`
	Walls      []WallConfig     `yaml:"walls,omitempty" json:"walls,omitempty"`
	Lattice    *LatticeConfig   `yaml:"lattice,omitempty" json:"lattice,omitempty"`
}

type ParticleConfig struct {
	Radius   float64    `yaml:"radius" json:"radius"`
	Mass     float64    `yaml:"mass" json:"mass"`
	Position [3]float64 `yaml:"position" json:"position"`
	Velocity [3]float64 `yaml:"velocity" json:"velocity"`
}

// WallConfig normals need not be unit length; Build normalizes them.
type WallConfig struct {
	Normal [3]float64 `yaml:"normal" json:"normal"`
	Anchor [3]float64 `yaml:"anchor" json:"anchor"`
}

// LatticeConfig generates a block of identical particles on a cubic grid,
// each displaced by up to Jitter along every axis.
type LatticeConfig struct {
	Count   [3]int     `yaml:"count" json:"count"`
	Spacing float64    `yaml:"spacing" json:"spacing"`
	Origin  [3]float64 `yaml:"origin" json:"origin"`
	Radius  float64    `yaml:"radius" json:"radius"`
	Mass    float64    `yaml:"mass" json:"mass"`
	Jitter  float64    `yaml:"jitter" json:"jitter"`
	Seed    int64      `yaml:"seed" json:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "scenario",
		Dt:         DefaultDt,
		TMax:       DefaultTMax,
		Stiffness:  DefaultStiffness,
		Gravity:    DefaultGravity,
		SaveCount:  DefaultSaveCount,
		ForceLaw:   DefaultForceLaw,
		Integrator: DefaultIntegrate,
		Precision:  DefaultPrecision,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Particles = slices.Clone(c.Particles)
	out.Walls = slices.Clone(c.Walls)
	if c.Lattice != nil {
		l := *c.Lattice
		out.Lattice = &l
	}
	return &out
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything the simulation core assumes of its input,
// including that no two initial particle centers coincide.
func (c *Config) Validate() error {
	if !positive(c.Dt) {
		return fmt.Errorf("%w: dt must be positive and finite, got %g", ErrInvalid, c.Dt)
	}
	if !positive(c.TMax) {
		return fmt.Errorf("%w: t_max must be positive and finite, got %g", ErrInvalid, c.TMax)
	}
	if !positive(c.Stiffness) {
		return fmt.Errorf("%w: stiffness must be positive and finite, got %g", ErrInvalid, c.Stiffness)
	}
	if !(c.Damping >= 0) || math.IsInf(c.Damping, 1) {
		return fmt.Errorf("%w: damping must be finite and not negative, got %g", ErrInvalid, c.Damping)
	}
	if !finite(c.Gravity) {
		return fmt.Errorf("%w: gravity must be finite, got %v", ErrInvalid, c.Gravity)
	}
	if c.SaveCount < 1 {
		return fmt.Errorf("%w: save_count must be at least 1, got %d", ErrInvalid, c.SaveCount)
	}
	if !slices.Contains(ForceLaws, c.ForceLaw) {
		return fmt.Errorf("%w: unknown force law %q", ErrInvalid, c.ForceLaw)
	}
	if !slices.Contains(Integrators, c.Integrator) {
		return fmt.Errorf("%w: unknown integrator %q", ErrInvalid, c.Integrator)
	}
	if c.Precision != -1 && (c.Precision < 1 || c.Precision > 17) {
		return fmt.Errorf("%w: precision must be -1 or in [1, 17], got %d", ErrInvalid, c.Precision)
	}

	for i, w := range c.Walls {
		if !finite(w.Normal) || !finite(w.Anchor) {
			return fmt.Errorf("%w: wall %d normal and anchor must be finite", ErrInvalid, i)
		}
		if mgl64.Vec3(w.Normal).Len() == 0 {
			return fmt.Errorf("%w: wall %d has a zero normal", ErrInvalid, i)
		}
	}

	if l := c.Lattice; l != nil {
		if l.Count[0] < 0 || l.Count[1] < 0 || l.Count[2] < 0 {
			return fmt.Errorf("%w: lattice count must not be negative, got %v", ErrInvalid, l.Count)
		}
		if !positive(l.Radius) || !positive(l.Mass) {
			return fmt.Errorf("%w: lattice radius and mass must be positive and finite", ErrInvalid)
		}
		if !finite(l.Origin) || math.IsInf(l.Spacing, 0) || !(l.Jitter >= 0) || math.IsInf(l.Jitter, 1) {
			return fmt.Errorf("%w: lattice origin, spacing and jitter must be finite", ErrInvalid)
		}
		if !(l.Spacing > 2*l.Jitter) {
			return fmt.Errorf("%w: lattice spacing %g must exceed twice the jitter %g", ErrInvalid, l.Spacing, l.Jitter)
		}
	}

	ps := c.particles()
	if len(ps) == 0 {
		return fmt.Errorf("%w: no particles", ErrInvalid)
	}
	for i, p := range ps {
		if !positive(p.Radius) {
			return fmt.Errorf("%w: particle %d radius must be positive and finite, got %g", ErrInvalid, i, p.Radius)
		}
		if !positive(p.Mass) {
			return fmt.Errorf("%w: particle %d mass must be positive and finite, got %g", ErrInvalid, i, p.Mass)
		}
		if !finite(p.Position) || !finite(p.Velocity) {
			return fmt.Errorf("%w: particle %d position and velocity must be finite", ErrInvalid, i)
		}
	}
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].Position == ps[j].Position {
				return fmt.Errorf("%w: particles %d and %d share a center", ErrInvalid, i, j)
			}
		}
	}

	return nil
}

// positive is false for NaN and +Inf as well as for x <= 0.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func finite(v [3]float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Build returns the initial state and parameters. Call Validate first.
func (c *Config) Build() ([]dem.Particle, []dem.Wall, dem.Params) {
	walls := make([]dem.Wall, len(c.Walls))
	for i, w := range c.Walls {
		walls[i] = dem.Wall{
			Normal: mgl64.Vec3(w.Normal).Normalize(),
			Anchor: mgl64.Vec3(w.Anchor),
		}
	}

	params := dem.Params{
		Dt:        c.Dt,
		TMax:      c.TMax,
		Stiffness: c.Stiffness,
		Damping:   c.Damping,
		Gravity:   mgl64.Vec3(c.Gravity),
		SaveCount: c.SaveCount,
	}

	return c.particles(), walls, params
}

// NumParticles counts explicit and generated particles.
func (c *Config) NumParticles() int {
	n := len(c.Particles)
	if l := c.Lattice; l != nil {
		n += l.Count[0] * l.Count[1] * l.Count[2]
	}
	return n
}

func (c *Config) particles() []dem.Particle {
	ps := make([]dem.Particle, 0, c.NumParticles())
	for _, p := range c.Particles {
		ps = append(ps, dem.Particle{
			Radius:   p.Radius,
			Mass:     p.Mass,
			Position: mgl64.Vec3(p.Position),
			Velocity: mgl64.Vec3(p.Velocity),
		})
	}

	l := c.Lattice
	if l == nil {
		return ps
	}

	rng := rand.New(rand.NewSource(l.Seed))
	jitter := func() float64 { return (2*rng.Float64() - 1) * l.Jitter }
	for k := 0; k < l.Count[2]; k++ {
		for j := 0; j < l.Count[1]; j++ {
			for i := 0; i < l.Count[0]; i++ {
				pos := mgl64.Vec3{
					l.Origin[0] + float64(i)*l.Spacing + jitter(),
					l.Origin[1] + float64(j)*l.Spacing + jitter(),
					l.Origin[2] + float64(k)*l.Spacing + jitter(),
				}
				ps = append(ps, dem.Particle{Radius: l.Radius, Mass: l.Mass, Position: pos})
			}
		}
	}
	return ps
}
