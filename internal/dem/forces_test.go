package dem_test

import (
	"math"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/demsim/internal/dem"
)

var _ = Describe("ComputeForces", func() {
	var (
		law     dem.LinearSpringDashpot
		gravity mgl64.Vec3
	)

	BeforeEach(func() {
		law = dem.LinearSpringDashpot{K: 1e4, Gamma: 0}
		gravity = mgl64.Vec3{}
	})

	Describe("gravity", func() {
		It("resets every accumulator to m*g", func() {
			ps := []dem.Particle{
				{Radius: 0.1, Mass: 2, Position: mgl64.Vec3{0, 0, 5}, Force: mgl64.Vec3{99, 99, 99}},
				{Radius: 0.1, Mass: 3, Position: mgl64.Vec3{5, 0, 5}},
			}
			g := mgl64.Vec3{0, 0, -9.81}

			dem.ComputeForces(ps, nil, g, law)
			Expect(ps[0].Force).To(Equal(g.Mul(2)))
			Expect(ps[1].Force).To(Equal(g.Mul(3)))

			dem.ComputeForces(ps, nil, g, law)
			Expect(ps[0].Force).To(Equal(g.Mul(2)))
		})
	})

	Describe("particle pairs", func() {
		It("applies no force to separated particles", func() {
			ps := []dem.Particle{
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, 0}},
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{1.5, 0, 0}},
			}

			c := dem.ComputeForces(ps, nil, gravity, law)

			Expect(c.Pair).To(BeZero())
			Expect(ps[0].Force).To(Equal(mgl64.Vec3{}))
			Expect(ps[1].Force).To(Equal(mgl64.Vec3{}))
		})

		It("treats exactly touching particles as separated", func() {
			ps := []dem.Particle{
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, 0}},
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 1, 0}},
			}

			c := dem.ComputeForces(ps, nil, gravity, law)

			Expect(c.Pair).To(BeZero())
			Expect(ps[0].Force).To(Equal(mgl64.Vec3{}))
		})

		It("applies equal and opposite forces to a contacting pair", func() {
			ps := []dem.Particle{
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0.1, 0.2, 0.3}, Velocity: mgl64.Vec3{0.3, -1, 0}},
				{Radius: 0.7, Mass: 4, Position: mgl64.Vec3{0.5, 0.9, 0.1}, Velocity: mgl64.Vec3{0, 2, 1}},
			}
			law.Gamma = 3

			c := dem.ComputeForces(ps, nil, gravity, law)

			Expect(c.Pair).To(Equal(1))
			Expect(ps[0].Force).NotTo(Equal(mgl64.Vec3{}))
			Expect(ps[0].Force.Add(ps[1].Force)).To(Equal(mgl64.Vec3{}))
		})

		It("pushes a head-on pair apart along the line of centers", func() {
			ps := []dem.Particle{
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{1, 0, 0}},
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0.9, 0, 0}, Velocity: mgl64.Vec3{-1, 0, 0}},
			}

			c := dem.ComputeForces(ps, nil, gravity, law)

			Expect(c.Pair).To(Equal(1))
			Expect(ps[0].Force.X()).To(BeNumerically("~", -1000, 1e-9))
			Expect(ps[1].Force.X()).To(BeNumerically("~", 1000, 1e-9))
			Expect(ps[0].Force.Y()).To(BeZero())
			Expect(ps[0].Force.Z()).To(BeZero())
		})

		It("keeps the net force of a closed cluster at zero", func() {
			ps := []dem.Particle{
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, 0}},
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0.8, 0, 0}},
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0.4, 0.7, 0}},
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0.4, 0.3, 0.6}},
			}

			c := dem.ComputeForces(ps, nil, gravity, law)
			net, abs := dem.ForceSums(ps)

			Expect(c.Pair).To(Equal(6))
			Expect(abs).To(BeNumerically(">", 0))
			Expect(net.Len()).To(BeNumerically("<", 1e-9))
		})

		It("produces non-finite forces for coincident centers", func() {
			ps := []dem.Particle{
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{1, 1, 1}},
				{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{1, 1, 1}},
			}

			dem.ComputeForces(ps, nil, gravity, law)

			Expect(ps[0].Force.X()).To(Satisfy(math.IsNaN))
		})
	})

	Describe("walls", func() {
		floor := dem.Wall{Normal: mgl64.Vec3{0, 0, -1}, Anchor: mgl64.Vec3{0, 0, 0}}

		resting := func(z float64) []dem.Particle {
			return []dem.Particle{{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, z}}}
		}

		It("ignores particles clear of the wall", func() {
			ps := resting(0.6)
			c := dem.ComputeForces(ps, []dem.Wall{floor}, gravity, law)

			Expect(c.Wall).To(BeZero())
			Expect(ps[0].Force).To(Equal(mgl64.Vec3{}))
		})

		It("counts zero overlap as contact with zero force", func() {
			ps := resting(0.5)
			c := dem.ComputeForces(ps, []dem.Wall{floor}, gravity, law)

			Expect(c.Wall).To(Equal(1))
			Expect(ps[0].Force).To(Equal(mgl64.Vec3{}))
		})

		It("pushes back harder the deeper the overlap", func() {
			prev := 0.0
			for _, z := range []float64{0.45, 0.4, 0.3, 0.2} {
				ps := resting(z)
				dem.ComputeForces(ps, []dem.Wall{floor}, gravity, law)

				fz := ps[0].Force.Z()
				Expect(fz).To(BeNumerically(">", prev))
				prev = fz
			}
		})

		It("pushes back harder with a stiffer spring", func() {
			soft, stiff := resting(0.4), resting(0.4)
			dem.ComputeForces(soft, []dem.Wall{floor}, gravity, dem.LinearSpringDashpot{K: 10})
			dem.ComputeForces(stiff, []dem.Wall{floor}, gravity, dem.LinearSpringDashpot{K: 100})

			Expect(stiff[0].Force.Z()).To(BeNumerically(">", soft[0].Force.Z()))
		})

		It("damps motion into the wall", func() {
			ps := resting(0.4)
			ps[0].Velocity = mgl64.Vec3{0, 0, -2}
			dem.ComputeForces(ps, []dem.Wall{floor}, gravity, dem.LinearSpringDashpot{K: 100, Gamma: 5})

			Expect(ps[0].Force.Z()).To(BeNumerically("~", 100*0.1+5*2, 1e-9))
		})

		It("adds no reciprocal force anywhere else", func() {
			ps := resting(0.4)
			ps = append(ps, dem.Particle{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{10, 0, 10}})
			dem.ComputeForces(ps, []dem.Wall{floor}, gravity, law)

			net, _ := dem.ForceSums(ps)
			Expect(net.Z()).To(BeNumerically(">", 0))
			Expect(ps[1].Force).To(Equal(mgl64.Vec3{}))
		})
	})
})

var _ = Describe("ForceLaw", func() {
	It("is linear in overlap for the spring-dashpot", func() {
		l := dem.LinearSpringDashpot{K: 10, Gamma: 2}
		Expect(l.NormalForce(0.1, 0)).To(BeNumerically("~", 1, 1e-12))
		Expect(l.NormalForce(0.2, 0)).To(BeNumerically("~", 2, 1e-12))
		Expect(l.NormalForce(0, 1.5)).To(Equal(3.0))
	})

	It("grows as overlap^1.5 for the Hertzian law", func() {
		h := dem.Hertzian{K: 10, Gamma: 0}
		Expect(h.NormalForce(0, 0)).To(BeZero())
		Expect(h.NormalForce(0.04, 0)).To(BeNumerically("~", 10*0.008, 1e-12))
		Expect(h.NormalForce(0.25, 0)).To(BeNumerically("<", dem.LinearSpringDashpot{K: 10}.NormalForce(0.25, 0)))
	})
})
