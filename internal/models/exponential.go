package models

import (
	"math"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// Exponential is the scalar test equation y' = λy with y(t) = y0·e^{λt}.
type Exponential struct {
	Lambda float64
}

func NewExponential() *Exponential { return &Exponential{Lambda: 1} }

func (e *Exponential) StateDim() int { return 1 }

func (e *Exponential) Derive(_ float64, y dynamo.State) dynamo.State {
	return dynamo.State{e.Lambda * y[0]}
}

func (e *Exponential) DefaultState() dynamo.State { return dynamo.State{1} }

// Exact returns the analytic solution at t for y(t0) = y0.
func (e *Exponential) Exact(t0, t float64, y0 dynamo.State) dynamo.State {
	return dynamo.State{y0[0] * math.Exp(e.Lambda*(t-t0))}
}

func (e *Exponential) GetParams() map[string]float64 {
	return map[string]float64{"lambda": e.Lambda}
}

func (e *Exponential) SetParam(name string, value float64) error {
	if name != "lambda" {
		return unknownParam("exponential", name)
	}
	e.Lambda = value
	return nil
}
