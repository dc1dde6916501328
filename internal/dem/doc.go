// Package dem implements a discrete element method core for spherical
// particles and flat walls.
//
// One step of a run is:
//
//   - [ComputeForces]: gravity, wall contacts, pairwise particle contacts
//   - [Integrator]: explicit position/velocity update
//   - [Simulator]: clock, snapshot cadence and observers
//
// Contact forces are evaluated by a [ForceLaw]. [LinearSpringDashpot] is
// the default; [Hertzian] is a nonlinear alternative.
//
// # Example
//
//	law := dem.LinearSpringDashpot{K: 1e4, Gamma: 0}
//	s := dem.New(particles, walls, params, law, integrators.NewEuler())
//	stats, err := s.Run(ctx, snapshot.NewWriter(f))
//
// # Thread Safety
//
// A Simulator owns its particles and is NOT thread-safe. Force
// accumulation happens in program order; there is no parallel path.
package dem
