package roots_test

import (
	"bytes"
	"math"

	kitlog "github.com/go-kit/kit/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/roots"
)

func sqrtTwo(x dynamo.State) dynamo.State {
	return dynamo.State{x[0]*x[0] - 2}
}

func sqrtTwoJacobian(x dynamo.State) dynamo.Matrix {
	return dynamo.Matrix{{2 * x[0]}}
}

var _ = Describe("NewtonRaphson", func() {
	var nr *roots.NewtonRaphson

	BeforeEach(func() {
		nr = roots.NewNewtonRaphson()
	})

	It("uses the documented defaults", func() {
		Expect(nr.MaxIter).To(Equal(100))
		Expect(nr.Tol).To(Equal(1e-10))
		Expect(nr.Strict).To(BeFalse())
		Expect(nr.Jacobian.String()).To(Equal("forward-difference"))
	})

	DescribeTable("finds sqrt(2) from x0=1",
		func(jac roots.Jacobian) {
			nr.Jacobian = jac
			nr.MaxIter = 50
			res, err := nr.Run(sqrtTwo, dynamo.State{1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.X[0]).To(BeNumerically("~", math.Sqrt2, 1e-6))
			Expect(res.Residual).To(BeNumerically("<", nr.Tol))
		},
		Entry("analytic Jacobian", roots.Analytic(sqrtTwoJacobian)),
		Entry("finite-difference Jacobian", roots.Approximate(1e-8)),
	)

	It("agrees between analytic and finite-difference Jacobians", func() {
		a := roots.Solve(sqrtTwo, dynamo.State{1}, roots.Analytic(sqrtTwoJacobian))
		b := roots.Solve(sqrtTwo, dynamo.State{1}, nil)
		Expect(a[0]).To(BeNumerically("~", b[0], 1e-6))
	})

	It("returns immediately when x0 is already a root", func() {
		calls := 0
		nr.Jacobian = roots.Analytic(func(dynamo.State) dynamo.Matrix {
			calls++
			return dynamo.Matrix{{1}}
		})
		nr.MaxIter = 10
		nr.Tol = 1e-12

		res, err := nr.Run(func(x dynamo.State) dynamo.State {
			return dynamo.State{x[0] - 3}
		}, dynamo.State{3})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.X).To(Equal(dynamo.State{3}))
		Expect(res.Iterations).To(Equal(0))
		Expect(calls).To(Equal(0))
	})

	It("solves the circle-line system", func() {
		f := func(x dynamo.State) dynamo.State {
			return dynamo.State{x[0]*x[0] + x[1]*x[1] - 4, x[0] - x[1]}
		}
		jf := func(x dynamo.State) dynamo.Matrix {
			return dynamo.Matrix{{2 * x[0], 2 * x[1]}, {1, -1}}
		}

		for _, jac := range []roots.Jacobian{roots.Analytic(jf), roots.Approximate(0)} {
			nr.Jacobian = jac
			x, err := nr.Solve(f, dynamo.State{1, 1.5})
			Expect(err).NotTo(HaveOccurred())
			Expect(x[0]).To(BeNumerically("~", math.Sqrt2, 1e-6))
			Expect(x[1]).To(BeNumerically("~", math.Sqrt2, 1e-6))
		}
	})

	Context("when the iteration budget is too small", func() {
		BeforeEach(func() {
			nr.Jacobian = roots.Analytic(sqrtTwoJacobian)
			nr.MaxIter = 1
			nr.Tol = 1e-12
		})

		It("returns the unconverged iterate without an error", func() {
			res, err := nr.Run(sqrtTwo, dynamo.State{100})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(res.Iterations).To(Equal(1))
			Expect(math.Abs(res.X[0] - math.Sqrt2)).To(BeNumerically(">", 1e-6))
			Expect(res.X[0]).To(BeNumerically("~", 50.01, 1e-12))
		})

		It("calls F once per iteration and reports the last evaluated residual", func() {
			calls := 0
			f := func(x dynamo.State) dynamo.State {
				calls++
				return sqrtTwo(x)
			}
			res, err := nr.Run(f, dynamo.State{100})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(1))
			Expect(res.Residual).To(Equal(9998.0))
		})

		It("reports NaN without evaluating F when the budget is zero", func() {
			nr.MaxIter = 0
			res, err := nr.Run(func(dynamo.State) dynamo.State {
				Fail("F called with a zero budget")
				return nil
			}, dynamo.State{100})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(math.IsNaN(res.Residual)).To(BeTrue())
			Expect(res.X).To(Equal(dynamo.State{100}))
		})

		It("reports ErrDidNotConverge in strict mode", func() {
			nr.Strict = true
			res, err := nr.Run(sqrtTwo, dynamo.State{100})
			Expect(err).To(MatchError(dynamo.ErrDidNotConverge))
			Expect(res.X).To(HaveLen(1))
		})
	})

	It("does not modify x0", func() {
		x0 := dynamo.State{1}
		roots.Solve(sqrtTwo, x0, nil)
		Expect(x0).To(Equal(dynamo.State{1}))
	})

	It("does not modify a residual vector the function hands back", func() {
		shared := dynamo.State{0}
		f := func(x dynamo.State) dynamo.State {
			shared[0] = x[0] - 5
			return shared
		}
		x := roots.Solve(f, dynamo.State{1}, roots.Analytic(func(dynamo.State) dynamo.Matrix {
			return dynamo.Matrix{{1}}
		}))
		Expect(x[0]).To(BeNumerically("~", 5, 1e-12))
	})

	It("falls back to finite differences for a nil analytic Jacobian", func() {
		Expect(roots.Analytic(nil).String()).To(Equal("forward-difference"))
	})

	It("logs convergence at debug level", func() {
		var buf bytes.Buffer
		nr.Logger = kitlog.NewLogfmtLogger(&buf)
		_, err := nr.Run(sqrtTwo, dynamo.State{1})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("level=debug"))
		Expect(buf.String()).To(ContainSubstring("msg=converged"))
	})
})
