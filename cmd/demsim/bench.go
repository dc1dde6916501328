package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/demsim/internal/dem"
)

// benchForces times ComputeForces on a dense random cloud with gravity and
// walls off, so the net force doubles as a check of pair antisymmetry.
func benchForces(cmd *cobra.Command, args []string) error {
	law := dem.LinearSpringDashpot{K: 1e4, Gamma: 1}
	rng := rand.New(rand.NewSource(benchSeed))

	fmt.Printf("benchmarking force computation (%d passes per size)\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tPAIRS\tCONTACTS\tTIME/PASS\tPAIRS/SEC\t|NET|/SUM|F|")

	for _, n := range benchSizes {
		if n < 1 {
			return fmt.Errorf("particle count must be positive, got %d", n)
		}
		ps := cloud(rng, n)

		var contacts dem.Contacts
		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			contacts = dem.ComputeForces(ps, nil, mgl64.Vec3{}, law)
		}
		elapsed := time.Since(start)

		net, abs := dem.ForceSums(ps)
		balance := 0.0
		if abs > 0 {
			balance = net.Len() / abs
		}

		pairs := n * (n - 1) / 2
		perPass := elapsed / time.Duration(max(benchSteps, 1))
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.3g\t%.2e\n",
			n, pairs, contacts.Pair, perPass,
			float64(pairs)/perPass.Seconds(), balance)
	}

	return w.Flush()
}

// cloud scatters n particles in a unit cube with radii chosen so that each
// touches a handful of neighbours.
func cloud(rng *rand.Rand, n int) []dem.Particle {
	r := 0.6 / math.Cbrt(float64(n))
	ps := make([]dem.Particle, n)
	for i := range ps {
		ps[i] = dem.Particle{
			Radius:   r,
			Mass:     1,
			Position: mgl64.Vec3{rng.Float64(), rng.Float64(), rng.Float64()},
			Velocity: mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()},
		}
	}
	return ps
}
