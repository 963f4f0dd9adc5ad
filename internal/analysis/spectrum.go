package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is the one-sided amplitude spectrum of a mean-removed series.
type Spectrum struct {
	Freqs      []float64
	Amplitudes []float64
}

// PowerSpectrum transforms values sampled every dt. Frequencies are in Hz.
func PowerSpectrum(values []float64, dt float64) Spectrum {
	n := len(values)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := stat.Mean(values, nil)
	centred := make([]float64, n)
	for i, v := range values {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centred)

	sp := Spectrum{
		Freqs:      make([]float64, len(coeffs)),
		Amplitudes: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		sp.Freqs[i] = fft.Freq(i) / dt
		sp.Amplitudes[i] = 2 * cmplx.Abs(c) / float64(n)
	}
	return sp
}

// DominantFrequency returns the frequency of the strongest non-constant
// component and its amplitude. Both are 0 for series shorter than 4 nodes.
func DominantFrequency(values []float64, dt float64) (freq, amplitude float64) {
	if len(values) < 4 {
		return 0, 0
	}
	sp := PowerSpectrum(values, dt)
	for i := 1; i < len(sp.Amplitudes); i++ {
		if sp.Amplitudes[i] > amplitude {
			freq, amplitude = sp.Freqs[i], sp.Amplitudes[i]
		}
	}
	return freq, amplitude
}
