package spectral

import (
	"math"
	"sort"
)

// logFloor keeps log-energy finite for silent bins.
const logFloor = 1e-10

// bandRange is a half-open bin interval [lo, hi) of the one-sided spectrum.
type bandRange struct {
	lo, hi int
}

// octaveBands lays out bandCount octave bands starting at fmin, preceded by
// the implicit sub-fmin band. Band edges are fmin * 2^k; the last band runs
// to Nyquist. Returned ranges never exceed binCount and are each at least
// one bin wide.
func octaveBands(fmin float64, bandCount int, sampleRate float64, binCount int) []bandRange {
	hzPerBin := sampleRate / 2 / float64(binCount-1)

	toBin := func(hz float64) int {
		b := int(math.Round(hz / hzPerBin))
		if b < 0 {
			b = 0
		}
		if b > binCount {
			b = binCount
		}
		return b
	}

	bands := make([]bandRange, 0, bandCount+1)
	lo := 0
	edge := fmin
	for k := 0; k < bandCount; k++ {
		hi := toBin(edge)
		if hi <= lo {
			hi = lo + 1
		}
		bands = append(bands, bandRange{lo: lo, hi: hi})
		lo = hi
		edge *= 2
	}
	// Final band: everything up to Nyquist.
	hi := binCount
	if hi <= lo {
		hi = lo + 1
	}
	bands = append(bands, bandRange{lo: lo, hi: hi})

	return bands
}

// bandContrast computes the octave-band spectral contrast of one frame's
// magnitude spectrum: per band, the robust log-energy peak minus the robust
// log-energy valley, in dB. The sub-fmin band (index 0) is dropped.
func (e *Extractor) bandContrast(mag []float64) []float64 {
	out := make([]float64, 0, len(e.bands)-1)

	for _, band := range e.bands[1:] {
		hi := band.hi
		if hi > len(mag) {
			hi = len(mag)
		}
		if hi <= band.lo {
			out = append(out, 0)
			continue
		}

		energies := make([]float64, hi-band.lo)
		for i := band.lo; i < hi; i++ {
			energies[i-band.lo] = mag[i] * mag[i]
		}
		sort.Float64s(energies)

		// Robust extremes: average the top and bottom quantile of bins
		// instead of taking a single min/max bin.
		k := int(math.Round(e.params.ContrastQuantile * float64(len(energies))))
		if k < 1 {
			k = 1
		}

		valley, peak := 0.0, 0.0
		for i := 0; i < k; i++ {
			valley += energies[i]
			peak += energies[len(energies)-1-i]
		}
		valley /= float64(k)
		peak /= float64(k)

		out = append(out, 10*(math.Log10(peak+logFloor)-math.Log10(valley+logFloor)))
	}

	return out
}
