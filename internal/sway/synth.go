package sway

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Synthesizer turns a one-sided PSD into a real time series by assigning a
// random phase to every positive-frequency bin, mirroring the conjugates into
// the negative bins and running an inverse FFT.
//
// A Synthesizer keeps its FFT plan and scratch buffers between calls, so it
// is not safe for concurrent use. Give each worker its own.
type Synthesizer struct {
	n        int
	df       float64
	fft      *fourier.CmplxFFT
	spectrum []complex128
	seq      []complex128
	residual float64
}

// NewSynthesizer creates a synthesizer for N samples spaced df apart in frequency
func NewSynthesizer(n int, df float64) *Synthesizer {
	return &Synthesizer{
		n:        n,
		df:       df,
		fft:      fourier.NewCmplxFFT(n),
		spectrum: make([]complex128, n),
		seq:      make([]complex128, n),
	}
}

// Len returns the number of samples produced per call
func (s *Synthesizer) Len() int {
	return s.n
}

// Residual returns the largest imaginary magnitude discarded by the last call
func (s *Synthesizer) Residual() float64 {
	return s.residual
}

// Synthesize draws one phase per positive bin from rng and returns the signal.
// psd must hold at least the DC..Nyquist bins.
func (s *Synthesizer) Synthesize(psd []float64, rng *rand.Rand) ([]float64, error) {
	n := s.n
	npos := PositiveBins(n)
	if len(psd) < npos {
		return nil, fmt.Errorf("%w: psd has %d bins, need %d for N=%d", ErrConfig, len(psd), npos, n)
	}

	scale := float64(n) / 2
	for k := 0; k < npos; k++ {
		phase := rng.Float64() * 2 * math.Pi
		amp := scale * math.Sqrt(2*psd[k]*s.df)
		s.spectrum[k] = cmplx.Rect(amp, phase)
	}

	// DC and (for even N) Nyquist have no mirror partner. Only their real
	// part reaches the output, so keep just that and the inverse stays real.
	s.spectrum[0] = complex(real(s.spectrum[0]), 0)
	last := npos - 1
	if n%2 == 0 {
		s.spectrum[last] = complex(real(s.spectrum[last]), 0)
		last--
	}
	for k := 1; k <= last; k++ {
		s.spectrum[n-k] = cmplx.Conj(s.spectrum[k])
	}

	s.fft.Sequence(s.seq, s.spectrum)

	out := make([]float64, n)
	s.residual = 0
	inv := 1 / float64(n)
	for i, v := range s.seq {
		out[i] = real(v) * inv
		if im := math.Abs(imag(v) * inv); im > s.residual {
			s.residual = im
		}
	}

	if floats.HasNaN(out) {
		return nil, fmt.Errorf("%w: synthesized signal contains NaN", ErrComputation)
	}
	return out, nil
}
