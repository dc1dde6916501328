package dem

import "math"

// ForceLaw gives the magnitude of the normal contact force for a given
// overlap and relative normal velocity. Positive values are repulsive.
type ForceLaw interface {
	NormalForce(overlap, vreln float64) float64
}

// LinearSpringDashpot is k*overlap + gamma*vreln.
type LinearSpringDashpot struct {
	K     float64
	Gamma float64
}

func (l LinearSpringDashpot) NormalForce(overlap, vreln float64) float64 {
	return l.K*overlap + l.Gamma*vreln
}

// Hertzian is k*overlap^(3/2) + gamma*vreln.
type Hertzian struct {
	K     float64
	Gamma float64
}

func (h Hertzian) NormalForce(overlap, vreln float64) float64 {
	return h.K*overlap*math.Sqrt(overlap) + h.Gamma*vreln
}
