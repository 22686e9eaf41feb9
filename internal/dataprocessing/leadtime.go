package dataprocessing

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "fleetcli/internal/errors"
	"fleetcli/internal/pricing"
)

// Column names of the leadtime workbook's Stock sheet
const (
	LeadtimeSheet   = "Stock"
	ColItem         = "Item"
	ColLeadtime     = "LEADTIMEPOSTRENTING"
	ColPurchaseCost = "P.Compra"
)

// LoadLeadtimes reads the leadtime reference workbook and returns the
// per-plate join table. The Stock sheet carries one decorative row above
// the header; missing or unparsable numeric cells coerce to zero so every
// listed plate joins cleanly.
func LoadLeadtimes(r io.Reader) (map[string]pricing.LeadtimeEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewProcessingError("leadtime workbook open", err)
	}
	defer f.Close()

	rows, err := f.GetRows(LeadtimeSheet)
	if err != nil {
		return nil, apperrors.NewMissingInputError(fmt.Sprintf("worksheet %q", LeadtimeSheet))
	}
	// Row 0 is a title band; the real header sits underneath it.
	if len(rows) < 2 {
		return nil, apperrors.NewMissingInputError("leadtime header row")
	}

	header := rows[1]
	itemIdx, leadtimeIdx, costIdx := -1, -1, -1
	for i, col := range header {
		switch normalizeHeader(col) {
		case "item", "matricula", "plate":
			itemIdx = i
		case "leadtimepostrenting", "leadtime":
			leadtimeIdx = i
		case "p.compra", "pcompra", "purchase_cost":
			costIdx = i
		}
	}

	var missing []string
	if itemIdx == -1 {
		missing = append(missing, ColItem)
	}
	if leadtimeIdx == -1 {
		missing = append(missing, ColLeadtime)
	}
	if costIdx == -1 {
		missing = append(missing, ColPurchaseCost)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing...)
	}

	entries := make(map[string]pricing.LeadtimeEntry, len(rows)-2)
	for _, row := range rows[2:] {
		plate := strings.TrimSpace(cell(row, itemIdx))
		if plate == "" {
			continue
		}
		entries[plate] = pricing.LeadtimeEntry{
			LeadtimeDays: parseFloatOr(cell(row, leadtimeIdx), 0),
			PurchaseCost: parseFloatOr(cell(row, costIdx), 0),
		}
	}

	return entries, nil
}
