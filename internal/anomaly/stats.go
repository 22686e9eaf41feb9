package anomaly

import (
	"math"
	"sort"
)

// RowStats holds the per-row robust statistics of a matrix. Every derived
// matrix shares the (category, period) index of the source matrix, so no
// re-alignment step exists between statistics and classification. Rows are
// fully independent of each other.
type RowStats struct {
	Median   []float64 // per-row median, NaN cells ignored
	MAD      []float64 // per-row median absolute deviation
	CV       []float64 // stddev / mean(|row|), dispersion relative to scale
	SignBase []float64 // sign of the row median: -1, 0 or 1
	TotalAbs []float64 // sum of |value| across the row

	RobustZ   [][]float64 // |v - median| / (MAD + epsilon)
	PctChange [][]float64 // month-over-month change; NaN at column 0
	SignFlip  [][]bool    // nonzero value whose sign contradicts the median sign
}

// ComputeRowStats derives all row-wise statistics for a matrix
func ComputeRowStats(m *Matrix) *RowStats {
	n := len(m.Values)
	stats := &RowStats{
		Median:    make([]float64, n),
		MAD:       make([]float64, n),
		CV:        make([]float64, n),
		SignBase:  make([]float64, n),
		TotalAbs:  make([]float64, n),
		RobustZ:   make([][]float64, n),
		PctChange: make([][]float64, n),
		SignFlip:  make([][]bool, n),
	}

	for i, row := range m.Values {
		med := median(row)
		madValue := mad(row, med)
		signBase := sign(med)

		stats.Median[i] = med
		stats.MAD[i] = madValue
		stats.CV[i] = coefficientOfVariation(row)
		stats.SignBase[i] = signBase

		z := make([]float64, len(row))
		pct := make([]float64, len(row))
		flip := make([]bool, len(row))
		totalAbs := 0.0

		for j, v := range row {
			totalAbs += math.Abs(v)
			z[j] = math.Abs(v-med) / (madValue + Epsilon)
			if j == 0 {
				pct[j] = math.NaN() // no prior period
			} else {
				pct[j] = (v - row[j-1]) / (math.Abs(row[j-1]) + Epsilon)
			}
			flip[j] = v != 0 && sign(v) != signBase
		}

		stats.TotalAbs[i] = totalAbs
		stats.RobustZ[i] = z
		stats.PctChange[i] = pct
		stats.SignFlip[i] = flip
	}

	return stats
}

// median returns the median of values, ignoring NaN. Empty input yields 0.
func median(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0
	}

	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 0 {
		return (clean[mid-1] + clean[mid]) / 2
	}
	return clean[mid]
}

// mad returns the median absolute deviation from med, ignoring NaN
func mad(values []float64, med float64) float64 {
	deviations := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			deviations = append(deviations, math.Abs(v-med))
		}
	}
	return median(deviations)
}

// coefficientOfVariation returns stddev / (mean(|values|) + epsilon)
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	sum := 0.0
	absSum := 0.0
	for _, v := range values {
		sum += v
		absSum += math.Abs(v)
	}
	mean := sum / float64(len(values))
	absMean := absSum / float64(len(values))

	sumSquared := 0.0
	for _, v := range values {
		sumSquared += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(sumSquared / float64(len(values)-1))

	return stddev / (absMean + Epsilon)
}

// sign returns -1, 0 or 1
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
