package models

import "github.com/san-kum/simfoundry/internal/dynamo"

// Rossler is the Rössler attractor.
type Rossler struct{ A, B, C float64 }

func NewRossler() *Rossler { return &Rossler{A: 0.2, B: 0.2, C: 5.7} }

func (r *Rossler) StateDim() int { return 3 }

func (r *Rossler) Derive(_ float64, s dynamo.State) dynamo.State {
	return dynamo.State{-s[1] - s[2], s[0] + r.A*s[1], r.B + s[2]*(s[0]-r.C)}
}

func (r *Rossler) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }

func (r *Rossler) GetParams() map[string]float64 {
	return map[string]float64{"a": r.A, "b": r.B, "c": r.C}
}

func (r *Rossler) SetParam(name string, value float64) error {
	switch name {
	case "a":
		r.A = value
	case "b":
		r.B = value
	case "c":
		r.C = value
	default:
		return unknownParam("rossler", name)
	}
	return nil
}
