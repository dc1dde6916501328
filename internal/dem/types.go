package dem

import "github.com/go-gl/mathgl/mgl64"

// Particle is a sphere. Force is scratch space rebuilt on every force pass.
type Particle struct {
	Radius   float64
	Mass     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Force    mgl64.Vec3
}

// Wall is an immovable plane. Normal is a unit vector pointing out of the
// domain into the wall, so a particle inside the domain has a positive
// distance (Anchor-Position).Normal.
type Wall struct {
	Normal mgl64.Vec3
	Anchor mgl64.Vec3
}

// Distance returns the signed distance from p to the wall plane, positive
// on the domain side.
func (w Wall) Distance(p mgl64.Vec3) float64 {
	return w.Anchor.Sub(p).Dot(w.Normal)
}

// Params are the run parameters shared by every step of a Simulator.
type Params struct {
	Dt        float64
	TMax      float64
	Stiffness float64
	Damping   float64
	Gravity   mgl64.Vec3
	SaveCount int
}

// Integrator advances every particle by dt using the force already
// accumulated in Particle.Force.
type Integrator interface {
	Step(ps []Particle, dt float64)
}

// SnapshotWriter receives the particle set every SaveCount steps.
type SnapshotWriter interface {
	WriteSnapshot(t float64, ps []Particle) error
}

// Observer is notified after each snapshot has been written. It must not
// retain or mutate ps.
type Observer interface {
	OnSnapshot(t float64, ps []Particle)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(t float64, ps []Particle)

func (f ObserverFunc) OnSnapshot(t float64, ps []Particle) { f(t, ps) }

// Contacts counts the contacts found in one force pass.
type Contacts struct {
	Wall int
	Pair int
}

// Stats are the counters owned by one Simulator.
type Stats struct {
	Steps        int
	Snapshots    int
	WallContacts int
	PairContacts int
}

func (s *Stats) add(c Contacts) {
	s.WallContacts += c.Wall
	s.PairContacts += c.Pair
}
