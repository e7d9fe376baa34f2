package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/integrators"
)

type solver interface {
	integrators.Stepper
	Solve(f dynamo.Derivative, t0, t1 float64, y0 dynamo.State, h float64) (*dynamo.Solution, error)
}

func zero(_ float64, y dynamo.State) dynamo.State { return make(dynamo.State, len(y)) }

func one(_ float64, y dynamo.State) dynamo.State {
	out := make(dynamo.State, len(y))
	for i := range out {
		out[i] = 1
	}
	return out
}

func growth(_ float64, y dynamo.State) dynamo.State { return y.Clone() }

func oscillator(_ float64, y dynamo.State) dynamo.State { return dynamo.State{y[1], -y[0]} }

func stiffDecay(_ float64, y dynamo.State) dynamo.State { return dynamo.State{-1000 * y[0]} }

var allSteppers = []TableEntry{
	Entry("euler", solver(integrators.NewEuler())),
	Entry("backward-euler", solver(integrators.NewBackwardEuler())),
	Entry("rk4", solver(integrators.NewRK4())),
}

var _ = Describe("fixed-step integrators", func() {
	DescribeTable("build the documented time grid",
		func(s solver) {
			for _, c := range []struct{ t0, t1, h float64 }{
				{0, 1, 0.1},
				{0, 1, 0.3},
				{-2, 3, 0.7},
				{1, 1.05, 0.1},
			} {
				sol, err := s.Solve(zero, c.t0, c.t1, dynamo.State{1, 2}, c.h)
				Expect(err).NotTo(HaveOccurred())

				want := int(math.Ceil((c.t1-c.t0)/c.h)) + 1
				Expect(sol.T).To(HaveLen(want))
				Expect(sol.Y).To(HaveLen(want))
				Expect(sol.T[0]).To(Equal(c.t0))
				for i := 0; i+1 < len(sol.T); i++ {
					Expect(sol.T[i+1] - sol.T[i]).To(BeNumerically("~", c.h, 1e-12))
				}
				Expect(sol.Validate()).To(Succeed())
			}
		},
		allSteppers,
	)

	It("overshoots t1 when h does not divide the interval", func() {
		sol, err := integrators.NewEuler().Solve(zero, 0, 1, dynamo.State{0}, 0.3)
		Expect(err).NotTo(HaveOccurred())
		tf, _ := sol.Final()
		Expect(tf).To(BeNumerically("~", 1.2, 1e-12))
	})

	DescribeTable("hold the state for a zero derivative",
		func(s solver) {
			y0 := dynamo.State{1.5, -2, 0}
			sol, err := s.Solve(zero, 0, 1, y0, 0.1)
			Expect(err).NotTo(HaveOccurred())
			for _, y := range sol.Y {
				Expect(y).To(Equal(y0))
			}
		},
		allSteppers,
	)

	DescribeTable("integrate a constant derivative exactly",
		func(s solver, tol float64) {
			sol, err := s.Solve(one, 0, 1, dynamo.State{0}, 0.1)
			Expect(err).NotTo(HaveOccurred())
			_, y := sol.Final()
			Expect(y[0]).To(BeNumerically("~", 1.0, tol))
		},
		Entry("euler", solver(integrators.NewEuler()), 1e-9),
		Entry("rk4", solver(integrators.NewRK4()), 1e-9),
		Entry("backward-euler", solver(integrators.NewBackwardEuler()), 1e-7),
	)

	DescribeTable("reject invalid arguments",
		func(s solver) {
			for _, c := range []struct{ t0, t1, h float64 }{
				{0, 1, 0},
				{0, 1, -0.1},
				{0, 1, math.NaN()},
				{1, 1, 0.1},
				{2, 1, 0.1},
			} {
				sol, err := s.Solve(one, c.t0, c.t1, dynamo.State{0}, c.h)
				Expect(err).To(MatchError(dynamo.ErrInvalidArgument), "case %+v", c)
				Expect(sol).To(BeNil())
			}
		},
		allSteppers,
	)

	It("distinguishes step and interval errors", func() {
		_, err := integrators.NewRK4().Solve(one, 0, 1, dynamo.State{0}, 0)
		Expect(err).To(MatchError(dynamo.ErrInvalidStep))

		_, err = integrators.NewRK4().Solve(one, 1, 0, dynamo.State{0}, 0.1)
		Expect(err).To(MatchError(dynamo.ErrInvalidInterval))
	})

	DescribeTable("refuse a grid too long to allocate",
		func(s solver) {
			sol, err := s.Solve(one, 0, 1, dynamo.State{0}, 1e-9)
			Expect(err).To(MatchError(dynamo.ErrInvalidStep))
			Expect(sol).To(BeNil())
		},
		allSteppers,
	)

	DescribeTable("panic when f changes the state dimension",
		func(s solver) {
			grow := func(_ float64, y dynamo.State) dynamo.State {
				return append(y.Clone(), 0)
			}
			Expect(func() {
				_, _ = s.Solve(grow, 0, 0.1, dynamo.State{1, 0}, 0.05)
			}).To(Panic())
		},
		allSteppers,
	)

	DescribeTable("copy the initial state",
		func(s solver) {
			y0 := dynamo.State{1, 0}
			sol, err := s.Solve(oscillator, 0, 0.5, y0, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(y0).To(Equal(dynamo.State{1, 0}))

			y0[0] = 42
			Expect(sol.Y[0][0]).To(Equal(1.0))
		},
		allSteppers,
	)

	Describe("exponential growth y' = y on [0, 1] with h = 0.01", func() {
		It("is accurate to 1e-6 with RK4", func() {
			sol, err := integrators.NewRK4().Solve(growth, 0, 1, dynamo.State{1}, 0.01)
			Expect(err).NotTo(HaveOccurred())
			_, y := sol.Final()
			Expect(y[0]).To(BeNumerically("~", math.E, 1e-6))
		})

		It("is only first-order accurate with the Euler methods", func() {
			for _, s := range []solver{integrators.NewEuler(), integrators.NewBackwardEuler()} {
				sol, err := s.Solve(growth, 0, 1, dynamo.State{1}, 0.01)
				Expect(err).NotTo(HaveOccurred())
				_, y := sol.Final()
				Expect(y[0]).To(BeNumerically("~", math.E, 0.02), s.Name())
				Expect(math.Abs(y[0] - math.E)).To(BeNumerically(">", 1e-3), s.Name())
			}
		})

		It("under-shoots with forward Euler and over-shoots with backward Euler", func() {
			fwd, _ := integrators.NewEuler().Solve(growth, 0, 1, dynamo.State{1}, 0.01)
			bwd, _ := integrators.NewBackwardEuler().Solve(growth, 0, 1, dynamo.State{1}, 0.01)
			_, yf := fwd.Final()
			_, yb := bwd.Final()
			Expect(yf[0]).To(BeNumerically("<", math.E))
			Expect(yb[0]).To(BeNumerically(">", math.E))
			Expect(yb[0]).To(BeNumerically("~", math.Pow(0.99, -100), 1e-6))
		})
	})

	It("tracks the harmonic oscillator with RK4", func() {
		sol, err := integrators.NewRK4().Solve(oscillator, 0, 1, dynamo.State{1, 0}, 0.01)
		Expect(err).NotTo(HaveOccurred())
		tf, y := sol.Final()
		Expect(y[0]).To(BeNumerically("~", math.Cos(tf), 1e-4))
		Expect(y[1]).To(BeNumerically("~", -math.Sin(tf), 1e-4))
	})

	Describe("a stiff decay y' = -1000 y with h = 0.01", func() {
		It("blows up with forward Euler", func() {
			sol, err := integrators.NewEuler().Solve(stiffDecay, 0, 1, dynamo.State{1}, 0.01)
			Expect(err).NotTo(HaveOccurred())
			_, y := sol.Final()
			Expect(math.Abs(y[0])).To(BeNumerically(">", 1e10))
		})

		It("decays monotonically with backward Euler", func() {
			sol, err := integrators.NewBackwardEuler().Solve(stiffDecay, 0, 1, dynamo.State{1}, 0.01)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < sol.Len(); i++ {
				Expect(sol.Y[i][0]).To(BeNumerically(">=", 0))
				Expect(sol.Y[i][0]).To(BeNumerically("<=", sol.Y[i-1][0]))
			}
			Expect(sol.Y[1][0]).To(BeNumerically("~", 1.0/11.0, 1e-8))
		})
	})

	It("passes the step start time to the derivative", func() {
		var seen []float64
		f := func(t float64, y dynamo.State) dynamo.State {
			seen = append(seen, t)
			return make(dynamo.State, len(y))
		}
		_, err := integrators.NewEuler().Solve(f, 0, 0.3, dynamo.State{0}, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(HaveLen(3))
		Expect(seen[0]).To(Equal(0.0))
		Expect(seen[2]).To(BeNumerically("~", 0.2, 1e-12))
	})

	It("evaluates RK4 stages at t, t+h/2, t+h/2, t+h", func() {
		var seen []float64
		f := func(t float64, y dynamo.State) dynamo.State {
			seen = append(seen, t)
			return dynamo.State{0}
		}
		integrators.NewRK4().Step(f, 1, dynamo.State{0}, 0.2)
		Expect(seen).To(HaveLen(4))
		for i, want := range []float64{1, 1.1, 1.1, 1.2} {
			Expect(seen[i]).To(BeNumerically("~", want, 1e-15))
		}
	})
})
