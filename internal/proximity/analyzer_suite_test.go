package proximity

import (
	"context"

	"github.com/golang/geo/r3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/traj"
)

var _ = Describe("Analyzer", func() {
	var (
		ev  *countingEvaluator
		a   *Analyzer
		tr  *traj.Trajectory
		ctx context.Context
	)

	BeforeEach(func() {
		ev = countEvaluator(railEngine(GinkgoT()))
		a = New(ev, Options{})
		tr = railTrajectory(GinkgoT(), linspace(0, 1.5, 16)...)
		ctx = context.Background()
	})

	Describe("pair distances", func() {
		It("returns exactly one full-length series per declared pair", func() {
			series, err := a.MinimalDistancesForPairs(ctx, tr, railPairs, ev.NewWorkspace())
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Labels()).To(ConsistOf("ball-post", "ball-beacon", "post-beacon"))
			for _, label := range series.Labels() {
				values, ok := series.Get(label)
				Expect(ok).To(BeTrue())
				Expect(values).To(HaveLen(16))
			}
		})

		It("propagates placements once per node regardless of pair count", func() {
			_, err := a.MinimalDistancesForPairs(ctx, tr, railPairs[:1], nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.placements.Load()).To(BeEquivalentTo(16))

			ev.placements.Store(0)
			_, err = a.MinimalDistancesForPairs(ctx, tr, railPairs, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.placements.Load()).To(BeEquivalentTo(16))
			Expect(ev.distances.Load()).To(BeEquivalentTo(16 + 16*3))
		})

		It("never reports negative separations by default", func() {
			series, err := a.MinimalDistancesForPairs(ctx, tr, railPairs, nil)
			Expect(err).NotTo(HaveOccurred())
			values, _ := series.Get("ball-post")
			Expect(values).To(HaveEach(BeNumerically(">=", 0)))
		})

		Context("with an out-of-range pair", func() {
			It("fails before any kinematics", func() {
				series, err := a.MinimalDistancesForPairs(ctx, tr, []kinematics.Pair{{A: 0, B: 3}}, nil)
				Expect(series).To(BeNil())
				Expect(err).To(MatchError(kinematics.ErrIndex))
				Expect(ev.placements.Load()).To(BeZero())
			})
		})
	})

	Describe("target distances", func() {
		It("is zero only where the frame meets the target", func() {
			d, err := a.DistanceToNamedTarget(ctx, tr, nil, "carriage", r3.Vector{X: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(HaveLen(16))
			for i, v := range d {
				if tr.Nodes[i].Q[0] == 1 {
					Expect(v).To(BeZero())
				} else {
					Expect(v).To(BeNumerically(">", 0))
				}
			}
		})

		It("rejects unknown frames before evaluating nodes", func() {
			_, err := a.DistanceToNamedTarget(ctx, tr, nil, "gripper", r3.Vector{})
			Expect(err).To(MatchError(kinematics.ErrLookup))
			Expect(ev.poses.Load()).To(BeZero())
		})
	})

	Describe("parallel evaluation", func() {
		It("matches the serial result", func() {
			serial, err := a.MinimalDistancesForPairs(ctx, tr, railPairs, nil)
			Expect(err).NotTo(HaveOccurred())

			parallel, err := New(ev, Options{Workers: 5}).MinimalDistancesForPairs(ctx, tr, railPairs, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(parallel.Labels()).To(Equal(serial.Labels()))
			Expect(parallel.Map()).To(Equal(serial.Map()))
		})
	})
})
