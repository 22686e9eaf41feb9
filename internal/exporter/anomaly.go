package exporter

import (
	"strconv"

	"fleetcli/internal/anomaly"
)

// AnomalySummaryHeaders is the column order of the per-category summary CSV
var AnomalySummaryHeaders = []string{
	"category",
	"anomalous_months",
	"cv",
	"median",
	"mad",
	"total_abs",
}

// AnomalyDetailHeaders is the column order of the flagged-cell detail CSV
var AnomalyDetailHeaders = []string{
	"category",
	"period",
	"value",
	"robust_z",
	"pct_change",
	"sign_flip",
	"severity",
	"rules",
}

// AnomalySummaryRecords flattens the ranked category summaries
func AnomalySummaryRecords(summaries []anomaly.CategorySummary) [][]string {
	records := make([][]string, len(summaries))
	for i, s := range summaries {
		records[i] = []string{
			s.Category,
			strconv.Itoa(s.AnomalousMonths),
			formatFloat(s.CV),
			formatFloat(s.Median),
			formatFloat(s.MAD),
			formatFloat(s.TotalAbs),
		}
	}
	return records
}

// AnomalyDetailRecords flattens the ranked flagged cells. The percent
// change column is blank for a category's first period, where no prior
// value exists.
func AnomalyDetailRecords(cells []anomaly.Cell) [][]string {
	records := make([][]string, len(cells))
	for i, c := range cells {
		pct := ""
		if c.PctChange != nil {
			pct = formatFloat(*c.PctChange)
		}
		records[i] = []string{
			c.Category,
			c.Period,
			formatFloat(c.Value),
			formatFloat(c.RobustZ),
			pct,
			strconv.FormatBool(c.SignFlip),
			formatFloat(c.Severity),
			ruleLabels(c),
		}
	}
	return records
}

// WriteAnomalyReport writes the summary and detail CSVs of one report.
// An empty path skips that output.
func (w *CSVWriter) WriteAnomalyReport(summaryPath, detailPath string, report *anomaly.Report) error {
	if summaryPath != "" {
		if err := w.WriteSimpleCSV(summaryPath, AnomalySummaryHeaders, AnomalySummaryRecords(report.Summary)); err != nil {
			return err
		}
	}
	if detailPath != "" {
		if err := w.WriteSimpleCSV(detailPath, AnomalyDetailHeaders, AnomalyDetailRecords(report.Detail)); err != nil {
			return err
		}
	}
	return nil
}

// ruleLabels names the detection rules that fired for a cell
func ruleLabels(c anomaly.Cell) string {
	labels := ""
	add := func(name string) {
		if labels != "" {
			labels += "|"
		}
		labels += name
	}
	if c.ZRule {
		add("robust_z")
	}
	if c.PctRule {
		add("pct_change")
	}
	if c.FlipRule {
		add("sign_flip")
	}
	return labels
}
