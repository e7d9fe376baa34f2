package models

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(0, dynamo.State{0, 0})

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(0, dynamo.State{math.Pi / 2, 0})

	expectedAccel := -p.Gravity / p.Length
	if math.Abs(dx[1]-expectedAccel) > 1e-6 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestMassSpringDamperDerivative(t *testing.T) {
	m := NewMassSpringDamper()

	dx := m.Derive(0, dynamo.State{0, 0})
	if dx[0] != 0 || dx[1] != 0 {
		t.Errorf("equilibrium derivative = %v, want [0 0]", dx)
	}

	dx = m.Derive(0, dynamo.State{1, 0.5})
	want := dynamo.State{0.5, -0.2*0.5 - 0.2*1}
	for i := range want {
		if math.Abs(dx[i]-want[i]) > 1e-15 {
			t.Errorf("dx[%d] = %v, want %v", i, dx[i], want[i])
		}
	}
}

func TestMassSpringDamperEnergy(t *testing.T) {
	m := NewMassSpringDamper()

	pe := m.Energy(dynamo.State{1, 0})
	ke := m.Energy(dynamo.State{0, math.Sqrt(0.2)})
	if math.Abs(pe-ke) > 1e-12 {
		t.Errorf("PE=%v and KE=%v should match", pe, ke)
	}
}

func TestVanDerPolLimitCycleSign(t *testing.T) {
	v := NewVanDerPol()

	// Inside the cycle damping is negative and speeds the state up.
	dx := v.Derive(0, dynamo.State{0, 1})
	if dx[1] <= 0 {
		t.Errorf("expected positive acceleration inside the cycle, got %f", dx[1])
	}

	dx = v.Derive(0, dynamo.State{2, 1})
	if dx[1] >= 0 {
		t.Errorf("expected negative acceleration outside the cycle, got %f", dx[1])
	}
}

func TestExponentialExact(t *testing.T) {
	e := NewExponential()
	e.Lambda = -2

	got := e.Exact(1, 2, dynamo.State{3})
	want := 3 * math.Exp(-2)
	if math.Abs(got[0]-want) > 1e-15 {
		t.Errorf("Exact = %v, want %v", got[0], want)
	}

	dx := e.Derive(0, dynamo.State{3})
	if dx[0] != -6 {
		t.Errorf("Derive = %v, want -6", dx[0])
	}
}

func TestModelDimensions(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		dim   int
	}{
		{"mass-spring-damper", NewMassSpringDamper(), 2},
		{"pendulum", NewPendulum(), 2},
		{"vanderpol", NewVanDerPol(), 2},
		{"exponential", NewExponential(), 1},
		{"lorenz", NewLorenz(), 3},
		{"duffing", NewDuffing(), 2},
		{"rossler", NewRossler(), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.model.StateDim(); got != tt.dim {
				t.Errorf("StateDim() = %d, want %d", got, tt.dim)
			}
			y0 := tt.model.DefaultState()
			if len(y0) != tt.dim {
				t.Errorf("len(DefaultState()) = %d, want %d", len(y0), tt.dim)
			}
			if dx := tt.model.Derive(0, y0); len(dx) != tt.dim {
				t.Errorf("len(Derive()) = %d, want %d", len(dx), tt.dim)
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	m := NewMassSpringDamper()
	if err := m.SetParam("k", 4); err != nil {
		t.Fatalf("SetParam(k): %v", err)
	}
	if got := m.GetParams()["k"]; got != 4 {
		t.Errorf("k = %v, want 4", got)
	}

	configurables := []dynamo.Configurable{NewMassSpringDamper(), NewPendulum(), NewVanDerPol(), NewExponential(), NewLorenz(), NewDuffing(), NewRossler()}
	for _, c := range configurables {
		if err := c.SetParam("nope", 1); !errors.Is(err, dynamo.ErrInvalidArgument) {
			t.Errorf("%T.SetParam(nope) = %v, want ErrInvalidArgument", c, err)
		}
	}
}

func TestRootProblemsVanishAtRoot(t *testing.T) {
	for _, name := range ListRootProblems() {
		p, ok := GetRootProblem(name)
		if !ok {
			t.Fatalf("GetRootProblem(%q) not found", name)
		}
		if r := dynamo.Norm(p.F(p.Root)); r > 1e-12 {
			t.Errorf("%s: |F(root)| = %g", name, r)
		}
		if r := dynamo.Norm(p.F(p.Guess)); r == 0 {
			t.Errorf("%s: guess is already a root", name)
		}
		rows, cols := p.Jacobian(p.Guess).Dims()
		if rows != len(p.Guess) || cols != len(p.Guess) {
			t.Errorf("%s: jacobian is %dx%d", name, rows, cols)
		}
	}

	if _, ok := GetRootProblem("missing"); ok {
		t.Error("expected missing problem to be absent")
	}
}

func TestDuffingForcing(t *testing.T) {
	d := NewDuffing()
	d.Alpha, d.Beta, d.Delta = 0, 0, 0

	dx := d.Derive(0, dynamo.State{0, 0})
	if math.Abs(dx[1]-d.Gamma) > 1e-15 {
		t.Errorf("forcing at t=0: got %v, want %v", dx[1], d.Gamma)
	}

	dx = d.Derive(math.Pi/(2*d.Omega), dynamo.State{0, 0})
	if math.Abs(dx[1]) > 1e-12 {
		t.Errorf("forcing at quarter period: got %v, want 0", dx[1])
	}
}

func TestDuffingDoubleWellEnergy(t *testing.T) {
	d := NewDuffing()
	// alpha = -1, beta = 1: wells at x = ±1 with energy -1/4
	for _, x := range []float64{-1, 1} {
		if e := d.Energy(dynamo.State{x, 0}); math.Abs(e+0.25) > 1e-15 {
			t.Errorf("Energy(%v, 0) = %v, want -0.25", x, e)
		}
	}
}

func TestRosslerFixedPointFlow(t *testing.T) {
	r := NewRossler()
	dx := r.Derive(0, dynamo.State{0, 0, 0})
	want := dynamo.State{0, 0, r.B}
	for i := range want {
		if dx[i] != want[i] {
			t.Errorf("dx[%d] = %v, want %v", i, dx[i], want[i])
		}
	}
}
