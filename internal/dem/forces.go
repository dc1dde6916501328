package dem

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ComputeForces rebuilds Particle.Force for every particle from gravity,
// wall contacts and particle contacts at the current positions and
// velocities. Pairs are visited as i < j in slice order.
//
// Coincident particle centers divide by zero; callers keep them apart.
func ComputeForces(ps []Particle, walls []Wall, gravity mgl64.Vec3, law ForceLaw) Contacts {
	var c Contacts

	for i := range ps {
		ps[i].Force = gravity.Mul(ps[i].Mass)
	}

	for i := range ps {
		p := &ps[i]
		for _, w := range walls {
			overlap := p.Radius - w.Distance(p.Position)
			if overlap < 0 {
				continue
			}
			vreln := p.Velocity.Dot(w.Normal)
			fn := law.NormalForce(overlap, vreln)
			p.Force = p.Force.Sub(w.Normal.Mul(fn))
			c.Wall++
		}
	}

	for i := 0; i < len(ps); i++ {
		p := &ps[i]
		for j := i + 1; j < len(ps); j++ {
			q := &ps[j]

			d := p.Position.Sub(q.Position)
			distSq := d.LenSqr()
			reach := p.Radius + q.Radius
			if reach*reach <= distSq {
				continue
			}

			dist := math.Sqrt(distSq)
			overlap := reach - dist
			normal := mgl64.Vec3{d[0] / dist, d[1] / dist, d[2] / dist}
			vreln := p.Velocity.Sub(q.Velocity).Dot(normal)
			f := normal.Mul(law.NormalForce(overlap, vreln))

			p.Force = p.Force.Add(f)
			q.Force = q.Force.Sub(f)
			c.Pair++
		}
	}

	return c
}

// ForceSums returns the vector sum of all particle forces and the sum of
// their magnitudes. Without gravity and walls the net is zero up to
// rounding.
func ForceSums(ps []Particle) (net mgl64.Vec3, abs float64) {
	for i := range ps {
		net = net.Add(ps[i].Force)
		abs += ps[i].Force.Len()
	}
	return net, abs
}
