package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demsim/internal/dem"
)

// Finite reports whether every position and velocity component is finite.
func Finite(ps []dem.Particle) bool {
	for i := range ps {
		if !finite(ps[i].Position) || !finite(ps[i].Velocity) {
			return false
		}
	}
	return true
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Stability is the fraction of snapshots whose state was entirely finite.
// It only observes; the run itself carries on with whatever values it has.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnSnapshot(t float64, ps []dem.Particle) {
	s.samples++
	if !Finite(ps) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxOverlap tracks the deepest overlap seen, relative to the smaller
// radius involved. Values near 1 mean the stiffness is too low for the
// impact speeds.
type MaxOverlap struct {
	name  string
	walls []dem.Wall
	max   float64
}

func NewMaxOverlap(walls []dem.Wall) *MaxOverlap {
	return &MaxOverlap{name: "max_overlap", walls: walls}
}

func (m *MaxOverlap) Name() string { return m.name }

func (m *MaxOverlap) OnSnapshot(t float64, ps []dem.Particle) {
	m.max = math.Max(m.max, RelativeOverlap(ps, m.walls))
}

func (m *MaxOverlap) Value() float64 { return m.max }

func (m *MaxOverlap) Reset() { m.max = 0 }

// RelativeOverlap returns the largest overlap divided by the smaller radius
// of the bodies involved (the particle radius for wall contacts).
func RelativeOverlap(ps []dem.Particle, walls []dem.Wall) float64 {
	deepest := 0.0
	for i := range ps {
		p := &ps[i]
		for _, w := range walls {
			if overlap := p.Radius - w.Distance(p.Position); overlap > 0 {
				deepest = math.Max(deepest, overlap/p.Radius)
			}
		}
		for j := i + 1; j < len(ps); j++ {
			q := &ps[j]
			overlap := p.Radius + q.Radius - p.Position.Sub(q.Position).Len()
			if overlap > 0 {
				deepest = math.Max(deepest, overlap/math.Min(p.Radius, q.Radius))
			}
		}
	}
	return deepest
}
