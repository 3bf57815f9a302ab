package sim_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/sim"
)

var _ = Describe("Clock", func() {
	var (
		clock *sim.Clock
		cfg   sim.ClockConfig
	)

	BeforeEach(func() {
		cfg = sim.ClockConfig{FixedStep: 3600, Timestep: 21600, MinTimestep: 60, MaxTimestep: 3600 * 16}
	})

	JustBeforeEach(func() {
		var err error
		clock, err = sim.NewClock(movingBody(), &drift{n: 1}, integrators.NewSymplecticEuler(), cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("integrates whole fixed steps per frame", func() {
		n, err := clock.Frame()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(6))
		Expect(clock.Elapsed()).To(Equal(21600.0))
		Expect(clock.Bodies()[0].Pos.X).To(BeNumerically("~", 21600, 1e-9))
	})

	Context("when the timestep is smaller than the fixed step", func() {
		BeforeEach(func() {
			cfg.Timestep = 1800
		})

		It("carries the remainder to the next frame", func() {
			n, _ := clock.Frame()
			Expect(n).To(Equal(0))
			Expect(clock.Elapsed()).To(BeZero())

			n, _ = clock.Frame()
			Expect(n).To(Equal(1))
			Expect(clock.Elapsed()).To(Equal(3600.0))
		})
	})

	It("keeps elapsed time equal to steps times the fixed step", func() {
		clock.Slower()
		clock.Slower()
		clock.Slower()
		for i := 0; i < 7; i++ {
			_, err := clock.Frame()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(clock.Elapsed()).To(Equal(float64(clock.Steps()) * clock.FixedStep()))
	})

	It("does not advance while paused", func() {
		clock.TogglePause()
		Expect(clock.Paused()).To(BeTrue())

		n, err := clock.Frame()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
		Expect(clock.Elapsed()).To(BeZero())
	})

	It("steps once while paused", func() {
		clock.SetPaused(true)
		Expect(clock.StepOnce()).To(Succeed())
		Expect(clock.Steps()).To(Equal(1))
		Expect(clock.Paused()).To(BeTrue())
	})

	It("doubles and halves the timestep within bounds", func() {
		clock.Faster()
		Expect(clock.Timestep()).To(Equal(43200.0))
		clock.Faster()
		Expect(clock.Timestep()).To(Equal(3600.0 * 16))

		for i := 0; i < 20; i++ {
			clock.Slower()
		}
		Expect(clock.Timestep()).To(Equal(60.0))
	})

	It("resets to the initial bodies", func() {
		clock.Frame()
		clock.SetPaused(true)
		clock.Reset()

		Expect(clock.Elapsed()).To(BeZero())
		Expect(clock.Paused()).To(BeFalse())
		Expect(clock.Bodies()[0].Pos.X).To(BeZero())
	})

	It("notifies observers on every step", func() {
		counter := &stepCounter{}
		clock.AddObserver(counter)
		clock.Frame()
		Expect(counter.steps).To(Equal(6))
	})

	It("returns a copy of the state", func() {
		x := clock.State()
		x[0] = 42
		Expect(clock.State()[0]).To(BeZero())
	})

	Context("when the state becomes invalid", func() {
		It("pauses and keeps the last valid state", func() {
			c, err := sim.NewClock(movingBody(), &poisoned{drift: drift{n: 1}, after: 2}, integrators.NewEuler(), cfg)
			Expect(err).NotTo(HaveOccurred())

			n, err := c.Frame()
			Expect(n).To(Equal(2))
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(2))

			Expect(c.Paused()).To(BeTrue())
			Expect(c.State().IsValid()).To(BeTrue())
			Expect(c.Bodies()[0].Pos.X).To(BeNumerically("~", 7200, 1e-9))
		})
	})

	DescribeTable("rejects invalid configuration",
		func(mutate func(*sim.ClockConfig)) {
			bad := sim.DefaultClockConfig()
			mutate(&bad)
			_, err := sim.NewClock(movingBody(), &drift{n: 1}, integrators.NewEuler(), bad)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		},
		Entry("zero fixed step", func(c *sim.ClockConfig) { c.FixedStep = 0 }),
		Entry("negative timestep", func(c *sim.ClockConfig) { c.Timestep = -1 }),
		Entry("min above max", func(c *sim.ClockConfig) { c.MinTimestep = 10; c.MaxTimestep = 5 }),
	)

	It("rejects a body count that does not match the system", func() {
		_, err := sim.NewClock(movingBody(), &drift{n: 2}, integrators.NewEuler(), sim.DefaultClockConfig())
		Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
	})
})
