package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// Spectrum is the one-sided power spectrum of a uniformly sampled series.
// Power[k] belongs to frequency Freqs[k] = k/(n·h).
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum transforms component j of sol after removing its mean and
// applying a Hann window. The grid must be uniform, which every fixed-step
// solve produces.
func PowerSpectrum(sol *dynamo.Solution, j int) (*Spectrum, error) {
	if err := checkIndices(sol, j); err != nil {
		return nil, err
	}
	n := sol.Len()
	if n < 4 {
		return nil, fmt.Errorf("spectrum of %d samples: %w", n, dynamo.ErrInvalidArgument)
	}

	h := sol.T[1] - sol.T[0]
	for i := 2; i < n; i++ {
		if math.Abs(sol.T[i]-sol.T[i-1]-h) > 1e-9*math.Max(h, 1) {
			return nil, fmt.Errorf("spectrum: non-uniform grid at sample %d: %w", i, dynamo.ErrInvalidStep)
		}
	}

	series := sol.Component(j)
	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)
	for i := range series {
		series[i] -= mean
	}
	window.Apply(series, window.Hann)

	coeffs := fft.FFTReal(series)
	half := n/2 + 1
	ps := &Spectrum{Freqs: make([]float64, half), Power: make([]float64, half)}
	for k := 0; k < half; k++ {
		ps.Freqs[k] = float64(k) / (float64(n) * h)
		a := cmplx.Abs(coeffs[k])
		ps.Power[k] = a * a
	}
	return ps, nil
}

// Dominant returns the frequency with the most power, ignoring the zero
// bin, or 0 if the spectrum is flat.
func (s *Spectrum) Dominant() float64 {
	best := -1
	for k := 1; k < len(s.Power); k++ {
		if best < 0 || s.Power[k] > s.Power[best] {
			best = k
		}
	}
	if best < 0 || s.Power[best] == 0 {
		return 0
	}
	return s.Freqs[best]
}

// Resolution is the spacing between frequency bins.
func (s *Spectrum) Resolution() float64 {
	if len(s.Freqs) < 2 {
		return 0
	}
	return s.Freqs[1]
}
