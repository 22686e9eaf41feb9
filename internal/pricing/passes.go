package pricing

import (
	"math"
	"sort"
)

// modelYearKey groups vehicles into age cohorts
type modelYearKey struct {
	model string
	year  int
}

// computeCoefficients returns a new row set with the age/mileage coefficient
// filled in. Higher coefficient = older or higher-mileage = theoretically
// cheaper.
func computeCoefficients(rows []ReviewRow, referenceYear int) []ReviewRow {
	out := cloneRows(rows)
	for i := range out {
		out[i].Coefficient = (float64(referenceYear-out[i].ModelYear) + float64(out[i].Mileage)/MileagePerYear) * 100
	}
	return out
}

// applyPeerVariation is the peer-relative variation pass. Within each model
// group it computes the price variation over the group minimum and the
// coefficient variation under the group maximum, then assigns the base
// score: for every row whose predecessor shares the model,
// (prev coefficient variation - this coefficient variation) / 10. A vehicle
// opening a new model group scores 0, as does a model with a single vehicle.
func applyPeerVariation(rows []ReviewRow) []ReviewRow {
	out := cloneRows(rows)

	minPrice := make(map[string]float64)
	maxCoef := make(map[string]float64)
	for _, row := range out {
		if p, ok := minPrice[row.Model]; !ok || row.WebPrice < p {
			minPrice[row.Model] = row.WebPrice
		}
		if c, ok := maxCoef[row.Model]; !ok || row.Coefficient > c {
			maxCoef[row.Model] = row.Coefficient
		}
	}

	for i := range out {
		out[i].PriceVariation = out[i].WebPrice - minPrice[out[i].Model]
		out[i].CoefficientVariation = maxCoef[out[i].Model] - out[i].Coefficient
	}

	for i := range out {
		if i > 0 && out[i].Model == out[i-1].Model {
			out[i].AdjustmentScore = (out[i-1].CoefficientVariation - out[i].CoefficientVariation) / 10
		} else {
			out[i].AdjustmentScore = 0
		}
	}

	return out
}

// applyAgeCohort is the age-cohort consistency pass. Within each
// (model, year) group of more than one vehicle it compares the highest and
// lowest mileage members; when the high-mileage vehicle is priced at least
// CohortPriceGap above the low-mileage one despite the extra wear, it takes
// a delta of (price gap + CohortPriceGap) x 0.05 + 200. Deltas are always
// non-negative.
func applyAgeCohort(rows []ReviewRow) []ReviewRow {
	out := cloneRows(rows)

	groups := make(map[modelYearKey][]int)
	for i, row := range out {
		key := modelYearKey{model: row.Model, year: row.ModelYear}
		groups[key] = append(groups[key], i)
	}

	for _, indices := range groups {
		if len(indices) < 2 {
			continue
		}

		// First occurrence wins ties, matching positional group order
		maxIdx, minIdx := indices[0], indices[0]
		for _, idx := range indices[1:] {
			if out[idx].Mileage > out[maxIdx].Mileage {
				maxIdx = idx
			}
			if out[idx].Mileage < out[minIdx].Mileage {
				minIdx = idx
			}
		}

		priceHigh := out[maxIdx].WebPrice
		priceLow := out[minIdx].WebPrice
		if priceHigh >= priceLow+CohortPriceGap {
			delta := (priceHigh-priceLow+CohortPriceGap)*0.05 + 200
			out[maxIdx].AdjustmentScore += delta
		}
	}

	return out
}

// applyMileageAdjacency is the mileage-adjacency consistency pass. Within
// each model group sorted by mileage, every adjacent pair closer than
// AdjacentMileageGap is checked: an older-year vehicle priced at or above
// its newer neighbour takes a flat AdjacencyPenalty. Same-year pairs are
// never penalized.
func applyMileageAdjacency(rows []ReviewRow) []ReviewRow {
	out := cloneRows(rows)

	groups := make(map[string][]int)
	for i, row := range out {
		groups[row.Model] = append(groups[row.Model], i)
	}

	for _, indices := range groups {
		if len(indices) < 2 {
			continue
		}

		byMileage := make([]int, len(indices))
		copy(byMileage, indices)
		sort.SliceStable(byMileage, func(a, b int) bool {
			return out[byMileage[a]].Mileage < out[byMileage[b]].Mileage
		})

		for k := 0; k < len(byMileage)-1; k++ {
			i1, i2 := byMileage[k], byMileage[k+1]
			m1, m2 := out[i1], out[i2]

			if absInt(m1.Mileage-m2.Mileage) >= AdjacentMileageGap {
				continue
			}

			switch {
			case m1.ModelYear < m2.ModelYear && m1.WebPrice >= m2.WebPrice:
				out[i1].AdjustmentScore += AdjacencyPenalty
			case m2.ModelYear < m1.ModelYear && m2.WebPrice >= m1.WebPrice:
				out[i2].AdjustmentScore += AdjacencyPenalty
			}
		}
	}

	return out
}

// cloneRows copies a row set so each pass is an explicit fold over
// immutable input
func cloneRows(rows []ReviewRow) []ReviewRow {
	out := make([]ReviewRow, len(rows))
	copy(out, rows)
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// round2 rounds to 2 decimal places for output
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
