package metrics

import "github.com/san-kum/simfoundry/internal/dynamo"

// FinalResidual measures ‖F(y)‖₂ at the last observed sample, for
// trajectories that should settle on a root of F.
type FinalResidual struct {
	name string
	f    dynamo.Residual
	last dynamo.State
}

func NewFinalResidual(f dynamo.Residual) *FinalResidual {
	return &FinalResidual{name: "final_residual", f: f}
}

func (r *FinalResidual) Name() string { return r.name }

func (r *FinalResidual) Observe(_ float64, y dynamo.State) { r.last = y }

func (r *FinalResidual) Value() float64 {
	if r.last == nil {
		return 0
	}
	return dynamo.Norm(r.f(r.last))
}

func (r *FinalResidual) Reset() { r.last = nil }

// MaxNorm is the largest ‖y‖₂ seen.
type MaxNorm struct {
	max float64
}

func NewMaxNorm() *MaxNorm { return &MaxNorm{} }

func (m *MaxNorm) Name() string { return "max_norm" }

func (m *MaxNorm) Observe(_ float64, y dynamo.State) {
	if n := y.Norm(); n > m.max {
		m.max = n
	}
}

func (m *MaxNorm) Value() float64 { return m.max }

func (m *MaxNorm) Reset() { m.max = 0 }
