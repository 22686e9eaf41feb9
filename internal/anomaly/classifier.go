package anomaly

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// Detector orchestrates one anomaly detection run over a matrix
type Detector struct {
	thresholds Thresholds
	logger     *slog.Logger
}

// NewDetector creates a new detector with the given thresholds
func NewDetector(thresholds Thresholds, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		thresholds: thresholds,
		logger:     logger,
	}
}

// Detect computes robust statistics and the classified reports for a matrix
func (d *Detector) Detect(ctx context.Context, m *Matrix) (*Report, error) {
	start := time.Now()

	if !d.thresholds.IsValid() {
		return nil, fmt.Errorf("invalid thresholds: z=%.2f pct=%.2f floor=%.2f",
			d.thresholds.ZScore, d.thresholds.PctChange, d.thresholds.NoiseFloor)
	}

	d.logger.InfoContext(ctx, "starting anomaly detection",
		"categories", len(m.Categories),
		"periods", len(m.Periods),
		"z_threshold", d.thresholds.ZScore,
		"pct_threshold", d.thresholds.PctChange,
		"noise_floor", d.thresholds.NoiseFloor,
	)

	stats := ComputeRowStats(m)
	report := Classify(m, stats, d.thresholds)

	d.logger.InfoContext(ctx, "anomaly detection completed",
		"duration", time.Since(start),
		"anomalous_cells", len(report.Detail),
	)

	return report, nil
}

// Classify applies the three anomaly rules to every cell and aggregates the
// results. A cell is anomalous when any rule fires; each rule additionally
// requires |value| to clear the noise floor. Pure function.
func Classify(m *Matrix, stats *RowStats, thresholds Thresholds) *Report {
	report := &Report{
		Summary: make([]CategorySummary, 0, len(m.Categories)),
		Detail:  make([]Cell, 0),
	}

	for i, category := range m.Categories {
		anomalousMonths := 0

		for j, value := range m.Values[i] {
			if math.Abs(value) < thresholds.NoiseFloor {
				continue
			}

			z := stats.RobustZ[i][j]
			pct := stats.PctChange[i][j]
			flip := stats.SignFlip[i][j]

			zRule := z >= thresholds.ZScore
			pctRule := !math.IsNaN(pct) && math.Abs(pct) >= thresholds.PctChange
			flipRule := flip

			if !zRule && !pctRule && !flipRule {
				continue
			}
			anomalousMonths++

			cell := Cell{
				Category: category,
				Period:   m.Periods[j],
				Value:    value,
				RobustZ:  z,
				SignFlip: flip,
				Severity: severity(z, pct),
				ZRule:    zRule,
				PctRule:  pctRule,
				FlipRule: flipRule,
			}
			if !math.IsNaN(pct) {
				p := pct
				cell.PctChange = &p
			}
			report.Detail = append(report.Detail, cell)
		}

		report.Summary = append(report.Summary, CategorySummary{
			Category:        category,
			AnomalousMonths: anomalousMonths,
			CV:              stats.CV[i],
			Median:          stats.Median[i],
			MAD:             stats.MAD[i],
			TotalAbs:        stats.TotalAbs[i],
		})
	}

	sortSummary(report.Summary)
	sortDetail(report.Detail)

	return report
}

// severity ranks an anomalous cell: max(|z|, |pct|), with an undefined pct
// contributing nothing
func severity(z, pct float64) float64 {
	s := math.Abs(z)
	if !math.IsNaN(pct) && math.Abs(pct) > s {
		s = math.Abs(pct)
	}
	return s
}

// sortSummary orders categories descending by (anomalous months, CV, total
// absolute value). The sort is stable, so ties keep row order.
func sortSummary(summary []CategorySummary) {
	sort.SliceStable(summary, func(i, j int) bool {
		a, b := summary[i], summary[j]
		if a.AnomalousMonths != b.AnomalousMonths {
			return a.AnomalousMonths > b.AnomalousMonths
		}
		if a.CV != b.CV {
			return a.CV > b.CV
		}
		return a.TotalAbs > b.TotalAbs
	})
}

// sortDetail orders anomalous cells descending by (severity, raw value)
func sortDetail(detail []Cell) {
	sort.SliceStable(detail, func(i, j int) bool {
		a, b := detail[i], detail[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		return a.Value > b.Value
	})
}
