package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	apperrors "fleetcli/internal/errors"
)

// Engine computes the pricing review for one fleet snapshot
type Engine struct {
	params Params
	logger *slog.Logger
}

// NewEngine creates a new pricing engine with the given parameters
func NewEngine(params Params, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		params: params,
		logger: logger,
	}
}

// ComputeReview runs the full pricing pipeline: normalization, derived
// price fields, the leadtime join, the coefficient, the three scoring
// passes, and the final descending sort by adjustment score. The input
// slices are never mutated; every stage produces a fresh row set.
func (e *Engine) ComputeReview(ctx context.Context, vehicles []Vehicle, leadtimes map[string]LeadtimeEntry) ([]ReviewRow, error) {
	start := time.Now()

	if !e.params.IsValid() {
		return nil, apperrors.NewProcessingError("pricing review",
			fmt.Errorf("invalid params: reference_year=%d current_day=%d", e.params.ReferenceYear, e.params.CurrentDay))
	}
	if leadtimes == nil {
		return nil, apperrors.NewMissingInputError("leadtime reference")
	}
	if len(vehicles) == 0 {
		return nil, apperrors.NewProcessingError("pricing review", fmt.Errorf("no vehicle records provided"))
	}

	e.logger.InfoContext(ctx, "starting pricing review",
		"vehicles", len(vehicles),
		"leadtime_entries", len(leadtimes),
		"reference_year", e.params.ReferenceYear,
	)

	normalized := normalizeVehicles(vehicles)
	rows := deriveRows(normalized, leadtimes, e.params.CurrentDay)

	// Pricing comparisons read adjacent rows, so group the fleet by
	// (brand, model) first; the stable sort keeps original index order
	// within each group.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Brand != rows[j].Brand {
			return rows[i].Brand < rows[j].Brand
		}
		return rows[i].Model < rows[j].Model
	})

	rows = computeCoefficients(rows, e.params.ReferenceYear)
	rows = applyPeerVariation(rows)
	rows = applyAgeCohort(rows)
	rows = applyMileageAdjacency(rows)

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AdjustmentScore > rows[j].AdjustmentScore
	})

	for i := range rows {
		rows[i].PurchaseCost = round2(rows[i].PurchaseCost)
		rows[i].BasePrice = round2(rows[i].BasePrice)
		rows[i].OfferPrice = round2(rows[i].OfferPrice)
		rows[i].WebPrice = round2(rows[i].WebPrice)
		rows[i].Margin = round2(rows[i].Margin)
		rows[i].MarginPct = round2(rows[i].MarginPct)
		rows[i].AdjustmentScore = round2(rows[i].AdjustmentScore)
	}

	e.logger.InfoContext(ctx, "pricing review completed",
		"duration", time.Since(start),
		"rows", len(rows),
	)

	return rows, nil
}

// normalizeVehicles fills deterministic defaults and cleans model names.
// Missing model years take the median of the known years; negative mileage
// clamps to zero; trim-level suffixes are stripped so variants group with
// their base model.
func normalizeVehicles(vehicles []Vehicle) []Vehicle {
	out := make([]Vehicle, len(vehicles))
	copy(out, vehicles)

	years := make([]int, 0, len(out))
	for _, v := range out {
		if v.ModelYear > 0 {
			years = append(years, v.ModelYear)
		}
	}
	fillYear := medianYear(years)

	for i := range out {
		out[i].Model = cleanModelName(out[i].Model)
		if out[i].ModelYear <= 0 {
			out[i].ModelYear = fillYear
		}
		if out[i].Mileage < 0 {
			out[i].Mileage = 0
		}
		if out[i].OfferPrice < 0 {
			out[i].OfferPrice = 0
		}
	}

	return out
}

// deriveRows builds the review rows with web price, margin and the
// projected leadtime. Plates absent from the leadtime reference keep zero
// cost and leadtime, like a left join.
func deriveRows(vehicles []Vehicle, leadtimes map[string]LeadtimeEntry, currentDay int) []ReviewRow {
	rows := make([]ReviewRow, len(vehicles))
	for i, v := range vehicles {
		webPrice := v.BasePrice
		if v.OfferPrice > 0 {
			webPrice = v.OfferPrice
		}

		lt := leadtimes[v.Plate]
		margin := webPrice - lt.PurchaseCost
		marginPct := 0.0
		if webPrice != 0 {
			marginPct = margin / webPrice * 100
		}

		rows[i] = ReviewRow{
			Plate:        v.Plate,
			FrameNumber:  v.FrameNumber,
			Brand:        v.Brand,
			Model:        v.Model,
			Mileage:      v.Mileage,
			ModelYear:    v.ModelYear,
			PurchaseCost: lt.PurchaseCost,
			BasePrice:    v.BasePrice,
			OfferPrice:   v.OfferPrice,
			WebPrice:     webPrice,
			Margin:       margin,
			MarginPct:    marginPct,
			LeadtimeDays: lt.LeadtimeDays + float64(currentDay),
		}
	}
	return rows
}

// cleanModelName strips trim-level suffixes from a model name
func cleanModelName(model string) string {
	model = strings.ReplaceAll(model, " A2", "")
	model = strings.ReplaceAll(model, " ABS", "")
	return model
}

// medianYear returns the median of years, or 0 for empty input
func medianYear(years []int) int {
	if len(years) == 0 {
		return 0
	}
	sorted := make([]int, len(years))
	copy(sorted, years)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
