// Package dynamo provides the shared primitives of the solver stack.
//
// The package defines the value types every solver exchanges:
//
//   - [State]: state vector of fixed dimension
//   - [Matrix]: dense row-major matrix
//   - [Derivative], [Residual], [JacobianFunc]: user-supplied functions
//   - [Solution]: time grid plus state trajectory returned by integrators
//   - [Norm]: Euclidean norm used by convergence tests
//
// # Example
//
//	sol, err := integrators.NewRK4().Solve(f, 0, 1, dynamo.State{1}, 0.01)
//	if err != nil {
//	    return err
//	}
//	t, y := sol.Final()
//
// # Ownership
//
// Solvers copy every input they mutate. A returned Solution belongs to the
// caller. Independent solves may run concurrently; use [Ensemble] to fan
// out several of them.
package dynamo
