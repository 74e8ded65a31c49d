package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X(k)| for k in [0, n/2) of the mean-removed series.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC bin as cycles per tick,
// or 0 for a flat series.
func DominantFrequency(data []float64) float64 {
	ps := PowerSpectrum(data)
	best, bestPower := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(best) / float64(len(data))
}

// DominantPeriod is 1/DominantFrequency in ticks, or 0 for a flat series.
func DominantPeriod(data []float64) float64 {
	f := DominantFrequency(data)
	if f == 0 {
		return 0
	}
	return 1 / f
}
