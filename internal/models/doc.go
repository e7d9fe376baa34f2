// Package models provides reference dynamical systems and residual systems.
//
// ODE models implement [dynamo.System] and [Model]; their Derive method is
// a [dynamo.Derivative] and can be handed straight to an integrator:
//
//   - [MassSpringDamper]: linear damped oscillator
//   - [Pendulum]: damped nonlinear pendulum
//   - [VanDerPol]: relaxation oscillator with a limit cycle
//   - [Exponential]: y' = λy, the usual accuracy benchmark
//   - [Lorenz]: butterfly attractor
//   - [Rossler]: single-scroll chaotic attractor
//   - [Duffing]: forced double-well oscillator, explicitly time dependent
//
// Most models also implement [dynamo.Configurable] and, where a conserved
// quantity exists, [dynamo.Hamiltonian].
//
// Residual systems ([CircleLine], [Sqrt2]) are root-finding problems with
// known roots and analytic Jacobians.
package models
