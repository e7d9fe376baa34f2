package models

import "github.com/san-kum/simfoundry/internal/dynamo"

const (
	DefaultStiffness = 0.2
	DefaultDamping   = 0.2
)

// MassSpringDamper is a unit mass on a linear spring with viscous damping.
// State: [x, v].
//
//	dx/dt = v
//	dv/dt = −c·v − k·x
type MassSpringDamper struct {
	K float64
	C float64
}

func NewMassSpringDamper() *MassSpringDamper {
	return &MassSpringDamper{K: DefaultStiffness, C: DefaultDamping}
}

func (m *MassSpringDamper) StateDim() int { return 2 }

func (m *MassSpringDamper) Derive(_ float64, y dynamo.State) dynamo.State {
	return dynamo.State{y[1], -m.C*y[1] - m.K*y[0]}
}

func (m *MassSpringDamper) DefaultState() dynamo.State { return dynamo.State{1, 0} }

// Energy is the mechanical energy ½v² + ½kx². It decays when C > 0.
func (m *MassSpringDamper) Energy(y dynamo.State) float64 {
	return 0.5*y[1]*y[1] + 0.5*m.K*y[0]*y[0]
}

func (m *MassSpringDamper) GetParams() map[string]float64 {
	return map[string]float64{"k": m.K, "c": m.C}
}

func (m *MassSpringDamper) SetParam(name string, value float64) error {
	switch name {
	case "k":
		m.K = value
	case "c":
		m.C = value
	default:
		return unknownParam("mass-spring-damper", name)
	}
	return nil
}
