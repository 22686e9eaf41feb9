package anomaly

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantRow(value float64, n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = value
	}
	return row
}

func TestDetectorDetect(t *testing.T) {
	t.Run("rejects invalid thresholds", func(t *testing.T) {
		d := NewDetector(Thresholds{ZScore: 0, PctChange: 1, NoiseFloor: 1}, nil)
		_, err := d.Detect(context.Background(), &Matrix{})
		require.Error(t, err)
	})

	t.Run("constant matrix yields no anomalies", func(t *testing.T) {
		m := &Matrix{
			Categories: []string{"ventas", "gastos"},
			Periods:    DefaultPeriodVocabulary,
			Values: [][]float64{
				constantRow(100, 12),
				constantRow(-40, 12),
			},
		}

		d := NewDetector(DefaultThresholds(), nil)
		report, err := d.Detect(context.Background(), m)
		require.NoError(t, err)

		assert.Empty(t, report.Detail)
		require.Len(t, report.Summary, 2)
		for _, s := range report.Summary {
			assert.Equal(t, 0, s.AnomalousMonths)
		}
	})

	t.Run("spike flagged by z rule and recovery by pct rule", func(t *testing.T) {
		row := constantRow(100, 12)
		row[3] = 40
		m := &Matrix{
			Categories: []string{"ventas"},
			Periods:    DefaultPeriodVocabulary,
			Values:     [][]float64{row},
		}

		d := NewDetector(DefaultThresholds(), nil)
		report, err := d.Detect(context.Background(), m)
		require.NoError(t, err)

		// the dip at abr fires the z rule; the rebound at may is a +150%
		// month-over-month change, firing the pct rule
		require.Len(t, report.Detail, 2)

		assert.Equal(t, "abr", report.Detail[0].Period)
		assert.True(t, report.Detail[0].ZRule)
		assert.False(t, report.Detail[0].PctRule)

		assert.Equal(t, "may", report.Detail[1].Period)
		assert.True(t, report.Detail[1].PctRule)

		require.Len(t, report.Summary, 1)
		assert.Equal(t, 2, report.Summary[0].AnomalousMonths)
	})
}

func TestClassify(t *testing.T) {
	t.Run("noise floor suppresses small values", func(t *testing.T) {
		// same shape as a real anomaly, but everything under the floor
		row := []float64{0.5, 0.5, 0.5, 0.1, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
		m := &Matrix{
			Categories: []string{"ruido"},
			Periods:    DefaultPeriodVocabulary,
			Values:     [][]float64{row},
		}

		report := Classify(m, ComputeRowStats(m), DefaultThresholds())
		assert.Empty(t, report.Detail)
	})

	t.Run("sign flip rule", func(t *testing.T) {
		m := &Matrix{
			Categories: []string{"gastos"},
			Periods:    []string{"ene", "feb", "mar", "abr"},
			Values:     [][]float64{{-100, -110, 90, -105}},
		}

		report := Classify(m, ComputeRowStats(m), Thresholds{ZScore: 1e12, PctChange: 1e12, NoiseFloor: 1})

		require.Len(t, report.Detail, 1)
		cell := report.Detail[0]
		assert.Equal(t, "mar", cell.Period)
		assert.True(t, cell.FlipRule)
		assert.False(t, cell.ZRule)
		assert.False(t, cell.PctRule)
	})

	t.Run("first period cell has nil pct change", func(t *testing.T) {
		m := &Matrix{
			Categories: []string{"ventas"},
			Periods:    []string{"ene", "feb", "mar"},
			Values:     [][]float64{{500, 10, 10}},
		}

		report := Classify(m, ComputeRowStats(m), DefaultThresholds())

		var first *Cell
		for i := range report.Detail {
			if report.Detail[i].Period == "ene" {
				first = &report.Detail[i]
			}
		}
		require.NotNil(t, first)
		assert.Nil(t, first.PctChange)
	})

	t.Run("summary ranked by anomalous months then CV", func(t *testing.T) {
		quiet := constantRow(100, 12)

		noisy := constantRow(100, 12)
		noisy[2] = 500
		noisy[7] = 800

		m := &Matrix{
			Categories: []string{"tranquila", "ruidosa"},
			Periods:    DefaultPeriodVocabulary,
			Values:     [][]float64{quiet, noisy},
		}

		report := Classify(m, ComputeRowStats(m), DefaultThresholds())

		require.Len(t, report.Summary, 2)
		assert.Equal(t, "ruidosa", report.Summary[0].Category)
		assert.Equal(t, "tranquila", report.Summary[1].Category)
		assert.Greater(t, report.Summary[0].AnomalousMonths, 0)
	})

	t.Run("every category appears in the summary", func(t *testing.T) {
		m := &Matrix{
			Categories: []string{"a", "b", "c"},
			Periods:    []string{"ene", "feb"},
			Values: [][]float64{
				{1, 1},
				{2, 2},
				{3, 3},
			},
		}

		report := Classify(m, ComputeRowStats(m), DefaultThresholds())
		assert.Len(t, report.Summary, 3)
	})

	t.Run("detail ranked by severity descending", func(t *testing.T) {
		row := constantRow(100, 12)
		row[1] = 130 // mild
		row[5] = 900 // wild
		m := &Matrix{
			Categories: []string{"ventas"},
			Periods:    DefaultPeriodVocabulary,
			Values:     [][]float64{row},
		}

		report := Classify(m, ComputeRowStats(m), DefaultThresholds())
		require.NotEmpty(t, report.Detail)
		for i := 1; i < len(report.Detail); i++ {
			assert.GreaterOrEqual(t, report.Detail[i-1].Severity, report.Detail[i].Severity)
		}
		assert.Equal(t, "jun", report.Detail[0].Period)
	})
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name     string
		z        float64
		pct      float64
		expected float64
	}{
		{"z dominates", 5, 2, 5},
		{"pct dominates", 2, -6, 6},
		{"nan pct contributes nothing", 3, math.NaN(), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, severity(tt.z, tt.pct))
		})
	}
}
