// Package stats reduces feature sequences to fixed quantile digests.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SummaryQuantiles are the five quantiles every file summary carries.
var SummaryQuantiles = [5]float64{0.05, 0.25, 0.50, 0.75, 0.95}

// Percentiles returns the SummaryQuantiles of values using linear
// interpolation, matching the usual numeric-library convention. The input is
// not modified. An empty input yields all NaN.
func Percentiles(values []float64) [5]float64 {
	var out [5]float64
	if len(values) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	for i, q := range SummaryQuantiles {
		out[i] = stat.Quantile(q, stat.LinInterp, sorted, nil)
	}
	return out
}

// BandMean collapses a bands-x-frames matrix to one value per frame by
// averaging across bands. All rows must have equal length.
func BandMean(table [][]float64) []float64 {
	if len(table) == 0 {
		return nil
	}

	frames := len(table[0])
	out := make([]float64, frames)
	for _, row := range table {
		for i, v := range row {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(table))
	}
	return out
}
