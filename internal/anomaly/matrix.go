package anomaly

import (
	"sort"
	"strconv"
	"strings"

	apperrors "fleetcli/internal/errors"
)

// Table is a flat labeled table, as parsed from a CSV or worksheet export.
// Cells are kept as raw strings; the matrix builder owns coercion.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}

// BuildMatrix aggregates the measure column by (category, period) and
// reindexes the result onto the canonical period vocabulary. Period labels
// are case/whitespace-normalized; labels outside the vocabulary are dropped.
// Combinations absent from the source fill to 0. The function is pure and
// returns a SchemaError when any required column is missing.
func BuildMatrix(tbl Table, categoryCol, periodCol, measureCol string, vocabulary []string) (*Matrix, error) {
	if len(vocabulary) == 0 {
		vocabulary = DefaultPeriodVocabulary
	}

	catIdx := tbl.ColumnIndex(categoryCol)
	perIdx := tbl.ColumnIndex(periodCol)
	mesIdx := tbl.ColumnIndex(measureCol)

	var missing []string
	if catIdx == -1 {
		missing = append(missing, categoryCol)
	}
	if perIdx == -1 {
		missing = append(missing, periodCol)
	}
	if mesIdx == -1 {
		missing = append(missing, measureCol)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing...)
	}

	periodPos := make(map[string]int, len(vocabulary))
	for i, p := range vocabulary {
		periodPos[normalizePeriod(p)] = i
	}

	sums := make(map[string][]float64)
	for _, row := range tbl.Rows {
		if len(row) <= catIdx || len(row) <= perIdx || len(row) <= mesIdx {
			continue
		}

		category := strings.TrimSpace(row[catIdx])
		if category == "" {
			continue
		}

		pos, ok := periodPos[normalizePeriod(row[perIdx])]
		if !ok {
			continue // period outside the canonical vocabulary
		}

		value, ok := parseMeasure(row[mesIdx])
		if !ok {
			continue // unparsable measure contributes nothing to the group
		}

		cells, ok := sums[category]
		if !ok {
			cells = make([]float64, len(vocabulary))
			sums[category] = cells
		}
		cells[pos] += value
	}

	categories := make([]string, 0, len(sums))
	for category := range sums {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	values := make([][]float64, len(categories))
	for i, category := range categories {
		values[i] = sums[category]
	}

	periods := make([]string, len(vocabulary))
	copy(periods, vocabulary)

	return &Matrix{
		Categories: categories,
		Periods:    periods,
		Values:     values,
	}, nil
}

// normalizePeriod lower-cases and trims a period label for vocabulary lookup
func normalizePeriod(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// parseMeasure coerces a raw cell to a float. Values with a comma decimal
// separator, as accounting exports produce, are accepted.
func parseMeasure(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
