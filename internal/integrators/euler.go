package integrators

import "github.com/san-kum/demsim/internal/dem"

// Euler moves each particle with its old velocity and then applies the
// force: r += v*dt, v += f*dt/m. Simulation output depends on this order.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(ps []dem.Particle, dt float64) {
	for i := range ps {
		p := &ps[i]
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Velocity = p.Velocity.Add(p.Force.Mul(dt / p.Mass))
	}
}
