package dem_test

import (
	"bytes"
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/demsim/internal/dem"
	"github.com/san-kum/demsim/internal/integrators"
	"github.com/san-kum/demsim/internal/snapshot"
)

type countingWriter struct {
	times []float64
	err   error
}

func (w *countingWriter) WriteSnapshot(t float64, ps []dem.Particle) error {
	if w.err != nil {
		return w.err
	}
	w.times = append(w.times, t)
	return nil
}

type countingObserver struct{ calls int }

func (o *countingObserver) OnSnapshot(t float64, ps []dem.Particle) { o.calls++ }

func headOnPair() []dem.Particle {
	return []dem.Particle{
		{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{1, 0, 0}},
		{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0.9, 0, 0}, Velocity: mgl64.Vec3{-1, 0, 0}},
	}
}

func momentum(ps []dem.Particle) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := range ps {
		p = p.Add(ps[i].Velocity.Mul(ps[i].Mass))
	}
	return p
}

var _ = Describe("Simulator", func() {
	var params dem.Params

	BeforeEach(func() {
		params = dem.Params{
			Dt:        0.125,
			TMax:      1.0,
			Stiffness: 1e4,
			SaveCount: 1,
		}
	})

	newSim := func(ps []dem.Particle, walls []dem.Wall) *dem.Simulator {
		law := dem.LinearSpringDashpot{K: params.Stiffness, Gamma: params.Damping}
		return dem.New(ps, walls, params, law, integrators.NewEuler())
	}

	It("moves a lone particle with its old velocity and applies gravity", func() {
		params.Gravity = mgl64.Vec3{0, 0, -9.81}
		params.Dt = 0.01
		r0, v0 := mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0.5, 0, 0.25}
		s := newSim([]dem.Particle{{Radius: 0.1, Mass: 1, Position: r0, Velocity: v0}}, nil)

		s.Step()

		p := s.Particles()[0]
		Expect(p.Position).To(Equal(r0.Add(v0.Mul(0.01))))
		Expect(p.Velocity).To(Equal(v0.Add(params.Gravity.Mul(0.01))))
		Expect(s.Time()).To(Equal(0.01))
	})

	DescribeTable("snapshot cadence",
		func(saveCount int, want []float64) {
			params.SaveCount = saveCount
			w := &countingWriter{}
			s := newSim([]dem.Particle{{Radius: 0.1, Mass: 1}}, nil)

			stats, err := s.Run(context.Background(), w)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Steps).To(Equal(8))
			Expect(stats.Snapshots).To(Equal(len(want)))
			Expect(w.times).To(Equal(want))
		},
		Entry("every step", 1, []float64{0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875, 1.0}),
		Entry("every third step", 3, []float64{0.375, 0.75}),
		Entry("exactly at the end", 8, []float64{1.0}),
		Entry("cadence longer than the run", 9, []float64(nil)),
	)

	It("accumulates the clock, so an inexact dt can add a step", func() {
		params.Dt = 0.1
		w := &countingWriter{}
		s := newSim([]dem.Particle{{Radius: 0.1, Mass: 1}}, nil)

		stats, err := s.Run(context.Background(), w)

		Expect(err).NotTo(HaveOccurred())
		// ten additions of 0.1 fall just short of 1.0
		Expect(stats.Steps).To(Equal(11))
		Expect(stats.Snapshots).To(Equal(11))
		Expect(s.Time()).To(BeNumerically(">", 1.0))
	})

	It("conserves momentum through a head-on collision", func() {
		params.Dt = 1e-4
		params.TMax = 0.05
		s := newSim(headOnPair(), nil)
		before := momentum(s.Particles())

		stats, err := s.Run(context.Background(), nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.PairContacts).To(BeNumerically(">", 0))
		after := momentum(s.Particles())
		Expect(after.Sub(before).Len()).To(BeNumerically("<", 1e-9))

		ps := s.Particles()
		Expect(ps[0].Velocity.X()).To(BeNumerically("<", 1))
		Expect(ps[1].Velocity.X()).To(BeNumerically(">", -1))
	})

	It("writes byte-identical streams for identical inputs", func() {
		params.Dt = 1e-3
		params.TMax = 0.1
		params.SaveCount = 10

		run := func() []byte {
			var buf bytes.Buffer
			_, err := newSim(headOnPair(), nil).Run(context.Background(), snapshot.NewWriter(&buf))
			Expect(err).NotTo(HaveOccurred())
			return buf.Bytes()
		}

		first, second := run(), run()
		Expect(first).NotTo(BeEmpty())
		Expect(first).To(Equal(second))
	})

	It("settles a particle onto a floor", func() {
		params.Gravity = mgl64.Vec3{0, 0, -9.81}
		params.Dt = 1e-4
		params.TMax = 2
		params.Damping = 100
		params.SaveCount = 1000
		floor := dem.Wall{Normal: mgl64.Vec3{0, 0, -1}}
		s := newSim([]dem.Particle{{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, 0.6}}}, []dem.Wall{floor})

		stats, err := s.Run(context.Background(), nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.WallContacts).To(BeNumerically(">", 0))
		p := s.Particles()[0]
		Expect(p.Position.Z()).To(BeNumerically("~", 0.5-9.81/1e4, 1e-3))
		Expect(p.Velocity.Len()).To(BeNumerically("<", 1e-2))
	})

	It("notifies observers once per snapshot", func() {
		params.SaveCount = 2
		obs := &countingObserver{}
		s := newSim([]dem.Particle{{Radius: 0.1, Mass: 1}}, nil)
		s.AddObserver(obs)

		stats, err := s.Run(context.Background(), nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(obs.calls).To(Equal(4))
		Expect(stats.Snapshots).To(Equal(4))
	})

	It("owns a copy of the initial particles", func() {
		ps := []dem.Particle{{Radius: 0.1, Mass: 1}}
		s := newSim(ps, nil)
		ps[0].Mass = 50

		Expect(s.Particles()[0].Mass).To(Equal(1.0))
	})

	It("lets non-finite state flow through without an error", func() {
		coincident := []dem.Particle{
			{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{1, 1, 1}},
			{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{1, 1, 1}},
		}
		var buf bytes.Buffer
		s := newSim(coincident, nil)

		stats, err := s.Run(context.Background(), snapshot.NewWriter(&buf))

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Snapshots).To(Equal(8))
		Expect(s.Particles()[0].Position.X()).To(Satisfy(math.IsNaN))
		Expect(buf.String()).To(ContainSubstring("NaN"))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := newSim([]dem.Particle{{Radius: 0.1, Mass: 1}}, nil)

		stats, err := s.Run(ctx, nil)

		Expect(err).To(MatchError(dem.ErrCanceled))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		var simErr *dem.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(BeZero())
		Expect(stats.Steps).To(BeZero())
	})

	It("stops when the snapshot writer fails", func() {
		params.SaveCount = 4
		diskFull := errors.New("disk full")
		s := newSim([]dem.Particle{{Radius: 0.1, Mass: 1}}, nil)

		stats, err := s.Run(context.Background(), &countingWriter{err: diskFull})

		Expect(err).To(MatchError(dem.ErrSnapshot))
		Expect(errors.Is(err, diskFull)).To(BeTrue())
		Expect(stats.Steps).To(Equal(4))
		Expect(stats.Snapshots).To(BeZero())
	})
})
