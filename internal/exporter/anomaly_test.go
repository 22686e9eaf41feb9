package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcli/internal/anomaly"
)

func TestAnomalySummaryRecords(t *testing.T) {
	records := AnomalySummaryRecords([]anomaly.CategorySummary{
		{Category: "ventas", AnomalousMonths: 2, CV: 0.35, Median: 100, MAD: 5, TotalAbs: 1250.5},
		{Category: "gastos", AnomalousMonths: 0, CV: 0.01, Median: -40, MAD: 0, TotalAbs: 480},
	})

	require.Len(t, records, 2)
	assert.Equal(t, []string{"ventas", "2", "0.35", "100", "5", "1250.5"}, records[0])
	assert.Equal(t, "-40", records[1][3])
}

func TestAnomalyDetailRecords(t *testing.T) {
	pct := 1.5

	records := AnomalyDetailRecords([]anomaly.Cell{
		{
			Category:  "ventas",
			Period:    "may",
			Value:     250,
			RobustZ:   4.2,
			PctChange: &pct,
			Severity:  4.2,
			ZRule:     true,
			PctRule:   true,
		},
		{
			Category: "gastos",
			Period:   "ene",
			Value:    -90,
			RobustZ:  3.6,
			SignFlip: true,
			Severity: 3.6,
			FlipRule: true,
		},
	})

	require.Len(t, records, 2)

	first := records[0]
	require.Len(t, first, len(AnomalyDetailHeaders))
	assert.Equal(t, "1.5", first[4])
	assert.Equal(t, "false", first[5])
	assert.Equal(t, "robust_z|pct_change", first[7])

	// nil pct change renders as a blank cell
	second := records[1]
	assert.Equal(t, "", second[4])
	assert.Equal(t, "true", second[5])
	assert.Equal(t, "sign_flip", second[7])
}

func TestWriteAnomalyReport(t *testing.T) {
	report := &anomaly.Report{
		Summary: []anomaly.CategorySummary{{Category: "ventas", AnomalousMonths: 1}},
		Detail:  []anomaly.Cell{{Category: "ventas", Period: "abr", Value: 40, RobustZ: 4, ZRule: true, Severity: 4}},
	}

	t.Run("writes both outputs", func(t *testing.T) {
		w, dir := testWriter(t)

		require.NoError(t, w.WriteAnomalyReport("summary.csv", "detail.csv", report))

		summary, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
		require.NoError(t, err)
		assert.Contains(t, string(summary), "anomalous_months")
		assert.Contains(t, string(summary), "ventas")

		detail, err := os.ReadFile(filepath.Join(dir, "detail.csv"))
		require.NoError(t, err)
		assert.Contains(t, string(detail), "robust_z")
		assert.Contains(t, string(detail), "abr")
	})

	t.Run("empty path skips that output", func(t *testing.T) {
		w, dir := testWriter(t)

		require.NoError(t, w.WriteAnomalyReport("", "detail.csv", report))

		_, err := os.Stat(filepath.Join(dir, "summary.csv"))
		assert.True(t, os.IsNotExist(err))

		_, err = os.Stat(filepath.Join(dir, "detail.csv"))
		assert.NoError(t, err)
	})
}
