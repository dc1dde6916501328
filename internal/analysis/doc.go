// Package analysis summarizes snapshot streams after a run.
//
//   - [Summarize]: per-frame speed and kinetic energy series plus
//     statistics of the final frame
//   - [FirstNonFinite]: index of the first frame carrying NaN or Inf
//
// Snapshot streams do not record mass, so energies assume unit-density
// spheres.
//
//	frames, _ := snapshot.NewReader(f).ReadAll()
//	sum := analysis.Summarize(frames)
package analysis
