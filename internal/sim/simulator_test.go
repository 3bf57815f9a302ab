package sim_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
)

type meanX struct {
	count int
	sum   float64
}

func (m *meanX) Name() string                     { return "mean_x" }
func (m *meanX) Observe(x dynamo.State, t float64) { m.count++; m.sum += x[0] }
func (m *meanX) Reset()                           { m.count, m.sum = 0, 0 }
func (m *meanX) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

var _ = Describe("Simulator", func() {
	var x0 dynamo.State

	BeforeEach(func() {
		x0 = body.Pack(movingBody())
	})

	It("samples states at the configured interval", func() {
		s := sim.New(&drift{n: 1}, integrators.NewEuler())
		res, err := s.Run(context.Background(), x0, sim.Config{FixedStep: 1, Duration: 10, SampleEvery: 5})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.StepsTaken).To(Equal(10))
		Expect(res.Times).To(Equal([]float64{0, 5, 10}))
		Expect(res.States).To(HaveLen(3))
		Expect(res.States[2][0]).To(BeNumerically("~", 10, 1e-12))
	})

	It("always records the final state", func() {
		s := sim.New(&drift{n: 1}, integrators.NewEuler())
		res, err := s.Run(context.Background(), x0, sim.Config{FixedStep: 1, Duration: 7, SampleEvery: 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times).To(Equal([]float64{0, 5, 7}))
	})

	It("reports metrics", func() {
		s := sim.New(&drift{n: 1}, integrators.NewEuler())
		m := &meanX{}
		s.AddMetric(m)

		res, err := s.Run(context.Background(), x0, sim.Config{FixedStep: 1, Duration: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.count).To(Equal(10))
		Expect(res.Metrics).To(HaveKeyWithValue("mean_x", 4.5))
	})

	It("stops on an invalid state", func() {
		s := sim.New(&poisoned{drift: drift{n: 1}, after: 3}, integrators.NewEuler())
		res, err := s.Run(context.Background(), x0, sim.Config{FixedStep: 1, Duration: 10, ValidateState: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(3))
		Expect(res.Errors).To(HaveLen(1))
		Expect(errors.Is(res.Errors[0], dynamo.ErrInvalidState)).To(BeTrue())
	})

	It("returns the partial result when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := sim.New(&drift{n: 1}, integrators.NewEuler())
		res, err := s.Run(ctx, x0, sim.Config{FixedStep: 1, Duration: 10})
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.States).To(HaveLen(1))
	})

	DescribeTable("rejects invalid configuration",
		func(cfg sim.Config, want error) {
			s := sim.New(&drift{n: 1}, integrators.NewEuler())
			_, err := s.Run(context.Background(), x0, cfg)
			Expect(errors.Is(err, want)).To(BeTrue())
		},
		Entry("zero step", sim.Config{FixedStep: 0, Duration: 1}, dynamo.ErrParameterBounds),
		Entry("negative duration", sim.Config{FixedStep: 1, Duration: -1}, dynamo.ErrParameterBounds),
	)

	It("tracks energy drift for a Kepler orbit", func() {
		r := 1.496e11
		v := math.Sqrt(physics.G * 1.989e30 / r)
		x := dynamo.State{0, 0, 0, 0, r, 0, 0, v}
		g := physics.NewGravity([]float64{1.989e30, 5.972e24})

		res, err := sim.New(g, integrators.NewRK4()).Run(context.Background(), x, sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.EnergyDrift).To(BeNumerically("<", 1e-6))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every integrator and keeps the order", func() {
		x0 := body.Pack(movingBody())
		names := []string{"euler", "rk4", "verlet"}
		e := sim.NewEnsemble(&drift{n: 1}, names, func() []dynamo.Metric { return []dynamo.Metric{&meanX{}} })

		results, err := e.Run(context.Background(), x0, sim.Config{FixedStep: 1, Duration: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.StepsTaken).To(Equal(4))
			Expect(r.Metrics).To(HaveKey("mean_x"))
		}
	})

	It("fails for an unknown integrator", func() {
		e := sim.NewEnsemble(&drift{n: 1}, []string{"bogus"}, nil)
		_, err := e.Run(context.Background(), body.Pack(movingBody()), sim.Config{FixedStep: 1, Duration: 1})
		Expect(err).To(HaveOccurred())
	})

	It("starts no member when a later integrator is unknown", func() {
		var started atomic.Int32
		metrics := func() []dynamo.Metric {
			started.Add(1)
			return nil
		}
		e := sim.NewEnsemble(&drift{n: 1}, []string{"euler", "rk4", "bogus"}, metrics)

		results, err := e.Run(context.Background(), body.Pack(movingBody()), sim.Config{FixedStep: 1, Duration: 1})
		Expect(err).To(MatchError(ContainSubstring("bogus")))
		Expect(results).To(BeNil())
		Expect(started.Load()).To(BeZero())
	})
})
