package models

import (
	"math"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// Duffing is the periodically forced nonlinear oscillator
//
//	x'' + δx' + αx + βx³ = γ cos(ωt)
//
// with state [x, v]. The forcing makes it explicitly time dependent.
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{Alpha: -1.0, Beta: 1.0, Delta: 0.3, Gamma: 0.5, Omega: 1.2}
}

func (d *Duffing) StateDim() int { return 2 }

func (d *Duffing) Derive(t float64, s dynamo.State) dynamo.State {
	x, v := s[0], s[1]
	return dynamo.State{v, -d.Delta*v - d.Alpha*x - d.Beta*x*x*x + d.Gamma*math.Cos(d.Omega*t)}
}

func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0} }

// Energy is the unforced, undamped energy ½v² + ½αx² + ¼βx⁴.
func (d *Duffing) Energy(s dynamo.State) float64 {
	x, v := s[0], s[1]
	return 0.5*v*v + 0.5*d.Alpha*x*x + 0.25*d.Beta*x*x*x*x
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		d.Alpha = value
	case "beta":
		d.Beta = value
	case "delta":
		d.Delta = value
	case "gamma":
		d.Gamma = value
	case "omega":
		d.Omega = value
	default:
		return unknownParam("duffing", name)
	}
	return nil
}
