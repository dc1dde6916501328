package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demsim/internal/dem"
)

type Metric interface {
	dem.Observer
	Name() string
	Value() float64
	Reset()
}

func KineticEnergy(ps []dem.Particle) float64 {
	ke := 0.0
	for i := range ps {
		ke += 0.5 * ps[i].Mass * ps[i].Velocity.LenSqr()
	}
	return ke
}

func Momentum(ps []dem.Particle) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := range ps {
		p = p.Add(ps[i].Velocity.Mul(ps[i].Mass))
	}
	return p
}

// PotentialEnergy is the gravitational energy plus the elastic energy
// stored in wall and particle overlaps. Elastic energy is only known for
// the built-in force laws; other laws contribute zero.
func PotentialEnergy(ps []dem.Particle, walls []dem.Wall, gravity mgl64.Vec3, law dem.ForceLaw) float64 {
	pe := 0.0
	for i := range ps {
		p := &ps[i]
		pe -= p.Mass * gravity.Dot(p.Position)

		for _, w := range walls {
			if overlap := p.Radius - w.Distance(p.Position); overlap > 0 {
				pe += elastic(law, overlap)
			}
		}

		for j := i + 1; j < len(ps); j++ {
			reach := p.Radius + ps[j].Radius
			dist := p.Position.Sub(ps[j].Position).Len()
			if overlap := reach - dist; overlap > 0 {
				pe += elastic(law, overlap)
			}
		}
	}
	return pe
}

func elastic(law dem.ForceLaw, overlap float64) float64 {
	switch l := law.(type) {
	case dem.LinearSpringDashpot:
		return 0.5 * l.K * overlap * overlap
	case dem.Hertzian:
		return 0.4 * l.K * overlap * overlap * math.Sqrt(overlap)
	default:
		return 0
	}
}

// Kinetic reports the kinetic energy at the latest snapshot and keeps the
// full series.
type Kinetic struct {
	name   string
	series []float64
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic_energy"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) OnSnapshot(t float64, ps []dem.Particle) {
	k.series = append(k.series, KineticEnergy(ps))
}

func (k *Kinetic) Value() float64 {
	if len(k.series) == 0 {
		return 0
	}
	return k.series[len(k.series)-1]
}

func (k *Kinetic) Series() []float64 { return k.series }

func (k *Kinetic) Reset() { k.series = nil }

// EnergyDrift is the largest relative deviation of total energy from its
// value at the first snapshot.
type EnergyDrift struct {
	name          string
	walls         []dem.Wall
	gravity       mgl64.Vec3
	law           dem.ForceLaw
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(walls []dem.Wall, gravity mgl64.Vec3, law dem.ForceLaw) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		walls:   walls,
		gravity: gravity,
		law:     law,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnSnapshot(t float64, ps []dem.Particle) {
	energy := KineticEnergy(ps) + PotentialEnergy(ps, e.walls, e.gravity, e.law)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
