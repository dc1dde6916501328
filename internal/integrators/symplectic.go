package integrators

import "github.com/san-kum/demsim/internal/dem"

// SymplecticEuler applies the force first and moves with the new
// velocity: v += f*dt/m, r += v*dt.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Step(ps []dem.Particle, dt float64) {
	for i := range ps {
		p := &ps[i]
		p.Velocity = p.Velocity.Add(p.Force.Mul(dt / p.Mass))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
	}
}
