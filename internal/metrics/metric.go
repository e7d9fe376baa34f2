// Package metrics computes scalar summaries of a trajectory.
package metrics

import "github.com/san-kum/simfoundry/internal/dynamo"

// Metric observes a trajectory one sample at a time.
type Metric interface {
	Name() string
	Observe(t float64, y dynamo.State)
	Value() float64
	Reset()
}

// Evaluate resets each metric, feeds it every sample of sol and collects
// the values by name.
func Evaluate(sol *dynamo.Solution, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i := range sol.T {
			m.Observe(sol.T[i], sol.Y[i])
		}
		out[m.Name()] = m.Value()
	}
	return out
}
