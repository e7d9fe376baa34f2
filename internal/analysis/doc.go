// Package analysis inspects solved trajectories.
//
//   - [ObservedOrder]: empirical order of accuracy of a stepper against an
//     exact solution, from runs at h and h/2
//   - [RichardsonOrder]: the same without an exact solution, from runs at
//     h, h/2 and h/4
//   - [NewPhasePortrait]: 2D projection of a [dynamo.Solution]
//   - [NewPoincareSection]: samples where one component crosses a level
//   - [PowerSpectrum]: windowed FFT of one component, for oscillation
//     frequencies
//
// A method of order p shrinks its global error by 2^p when h is halved:
//
//	p, err := analysis.ObservedOrder(integrators.NewRK4(), f, 0, 1, y0, 0.1, exact)
//	// p ≈ 4
package analysis
