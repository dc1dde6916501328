package dem

import (
	"context"
	"fmt"
)

// Simulator advances one particle set through time and owns its state.
type Simulator struct {
	particles  []Particle
	walls      []Wall
	params     Params
	law        ForceLaw
	integrator Integrator
	observers  []Observer

	t     float64
	stats Stats
}

// New copies ps and walls; the Simulator owns its particle state from
// here on. Inputs are expected to be validated by the caller.
func New(ps []Particle, walls []Wall, p Params, law ForceLaw, integ Integrator) *Simulator {
	return &Simulator{
		particles:  append([]Particle(nil), ps...),
		walls:      append([]Wall(nil), walls...),
		params:     p,
		law:        law,
		integrator: integ,
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Time() float64  { return s.t }
func (s *Simulator) Params() Params { return s.params }
func (s *Simulator) Stats() Stats   { return s.stats }
func (s *Simulator) Walls() []Wall  { return append([]Wall(nil), s.walls...) }

// Particles returns a copy of the current particle state.
func (s *Simulator) Particles() []Particle {
	return append([]Particle(nil), s.particles...)
}

// Step runs one force pass and one integration step and advances the clock.
func (s *Simulator) Step() {
	c := ComputeForces(s.particles, s.walls, s.params.Gravity, s.law)
	s.stats.add(c)
	s.integrator.Step(s.particles, s.params.Dt)
	s.t += s.params.Dt
	s.stats.Steps++
}

// Run steps until the clock reaches TMax, handing the particle set to w
// every SaveCount steps. No extra snapshot is written at the end. A nil w
// still counts snapshots and notifies observers.
//
// Non-finite state is not detected; it flows into later steps and
// snapshots unchanged.
func (s *Simulator) Run(ctx context.Context, w SnapshotWriter) (Stats, error) {
	counter := 0

	for s.t < s.params.TMax {
		select {
		case <-ctx.Done():
			return s.stats, &SimulationError{
				Step:    s.stats.Steps,
				Time:    s.t,
				Wrapped: fmt.Errorf("%w: %w", ErrCanceled, ctx.Err()),
			}
		default:
		}

		s.Step()

		counter++
		if counter < s.params.SaveCount {
			continue
		}
		counter = 0

		if w != nil {
			if err := w.WriteSnapshot(s.t, s.particles); err != nil {
				return s.stats, &SimulationError{
					Step:    s.stats.Steps,
					Time:    s.t,
					Wrapped: fmt.Errorf("%w: %w", ErrSnapshot, err),
				}
			}
		}
		s.stats.Snapshots++

		for _, obs := range s.observers {
			obs.OnSnapshot(s.t, s.particles)
		}
	}

	return s.stats, nil
}
