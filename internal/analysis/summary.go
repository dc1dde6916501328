package analysis

import (
	"math"

	"github.com/san-kum/demsim/internal/snapshot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Frames    int
	Particles int
	Start     float64
	End       float64

	Times     []float64
	MeanSpeed []float64
	Kinetic   []float64

	FinalSpeedMean   float64
	FinalSpeedStdDev float64
	FinalMaxSpeed    float64
	FinalMeanHeight  float64

	FirstNonFinite int
}

// Summarize reduces frames to series and final-frame statistics. An empty
// input yields a zero Summary with FirstNonFinite -1.
func Summarize(frames []*snapshot.Frame) Summary {
	s := Summary{
		Frames:         len(frames),
		FirstNonFinite: FirstNonFinite(frames),
		Times:          make([]float64, len(frames)),
		MeanSpeed:      make([]float64, len(frames)),
		Kinetic:        make([]float64, len(frames)),
	}
	if len(frames) == 0 {
		return s
	}

	s.Start = frames[0].Time
	s.End = frames[len(frames)-1].Time

	for i, f := range frames {
		s.Times[i] = f.Time
		speeds := Speeds(f)
		if len(speeds) > 0 {
			s.MeanSpeed[i] = stat.Mean(speeds, nil)
		}
		s.Kinetic[i] = KineticEnergy(f)
	}

	last := frames[len(frames)-1]
	s.Particles = len(last.Particles)
	if s.Particles == 0 {
		return s
	}

	speeds := Speeds(last)
	s.FinalSpeedMean, s.FinalSpeedStdDev = stat.MeanStdDev(speeds, nil)
	s.FinalMaxSpeed = floats.Max(speeds)

	heights := make([]float64, len(last.Particles))
	for i, rec := range last.Particles {
		heights[i] = rec.Position.Z()
	}
	s.FinalMeanHeight = stat.Mean(heights, nil)

	return s
}

func Speeds(f *snapshot.Frame) []float64 {
	speeds := make([]float64, len(f.Particles))
	for i, rec := range f.Particles {
		speeds[i] = rec.Velocity.Len()
	}
	return speeds
}

// KineticEnergy assumes each particle is a unit-density sphere.
func KineticEnergy(f *snapshot.Frame) float64 {
	ke := 0.0
	for _, rec := range f.Particles {
		mass := 4.0 / 3.0 * math.Pi * rec.Radius * rec.Radius * rec.Radius
		ke += 0.5 * mass * rec.Velocity.LenSqr()
	}
	return ke
}

// FirstNonFinite returns the index of the first frame with a NaN or Inf
// time, position, velocity or radius, or -1.
func FirstNonFinite(frames []*snapshot.Frame) int {
	for i, f := range frames {
		if !isFinite(f.Time) {
			return i
		}
		for _, rec := range f.Particles {
			vals := []float64{rec.Radius}
			vals = append(vals, rec.Position[:]...)
			vals = append(vals, rec.Velocity[:]...)
			for _, v := range vals {
				if !isFinite(v) {
					return i
				}
			}
		}
	}
	return -1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
