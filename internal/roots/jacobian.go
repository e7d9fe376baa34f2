package roots

import (
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/finitediff"
)

// Jacobian selects how NewtonRaphson obtains the Jacobian of the residual.
// It is either Analytic or Approximate.
type Jacobian interface {
	resolve(f dynamo.Residual) dynamo.JacobianFunc
	String() string
}

type analytic struct {
	fn dynamo.JacobianFunc
}

type approximate struct {
	h float64
}

// Analytic uses a caller-supplied Jacobian. A nil fn falls back to
// Approximate(finitediff.DefaultStep).
func Analytic(fn dynamo.JacobianFunc) Jacobian {
	if fn == nil {
		return Approximate(finitediff.DefaultStep)
	}
	return analytic{fn: fn}
}

// Approximate estimates the Jacobian by forward differences with step h.
func Approximate(h float64) Jacobian {
	if !(h > 0) {
		h = finitediff.DefaultStep
	}
	return approximate{h: h}
}

func (a analytic) resolve(dynamo.Residual) dynamo.JacobianFunc { return a.fn }

func (a analytic) String() string { return "analytic" }

func (a approximate) resolve(f dynamo.Residual) dynamo.JacobianFunc {
	h := a.h
	return func(x dynamo.State) dynamo.Matrix {
		return finitediff.Jacobian(f, x, h)
	}
}

func (a approximate) String() string { return "forward-difference" }
