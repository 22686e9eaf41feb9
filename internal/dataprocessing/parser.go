package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fleetcli/internal/anomaly"
	apperrors "fleetcli/internal/errors"
	"fleetcli/internal/pricing"
)

// Column names of the vehicle stock export. The source system emits Spanish
// headers; resolution is case-insensitive and accent-tolerant.
const (
	ColPlate      = "matrícula"
	ColFrame      = "frame_number"
	ColBrand      = "brand"
	ColModel      = "model"
	ColMileage    = "Km"
	ColYear       = "Año"
	ColBasePrice  = "Precio base"
	ColOfferPrice = "Oferta"
	ColModelID    = "model_id"
)

// ParseTableCSV reads a flat CSV into a generic table, stripping a UTF-8
// BOM when present. Rows keep their raw string cells; coercion belongs to
// the consumers.
func ParseTableCSV(r io.Reader) (anomaly.Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return anomaly.Table{}, fmt.Errorf("read content: %w", err)
	}
	content = stripBOM(content)

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return anomaly.Table{}, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) == 0 {
		return anomaly.Table{}, fmt.Errorf("CSV has no header row")
	}

	return anomaly.Table{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// LoadVehicles parses the vehicle stock CSV into typed records. Missing
// numeric cells coerce to zero (the pricing engine imputes model years
// later); a SchemaError enumerates any absent required column.
func LoadVehicles(r io.Reader) ([]pricing.Vehicle, error) {
	tbl, err := ParseTableCSV(r)
	if err != nil {
		return nil, apperrors.NewProcessingError("vehicle CSV parse", err)
	}

	cols := resolveVehicleColumns(tbl.Columns)
	if missing := cols.missing(); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing...)
	}

	vehicles := make([]pricing.Vehicle, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		if cols.plate >= len(row) {
			continue
		}
		plate := strings.TrimSpace(row[cols.plate])
		if plate == "" {
			continue
		}

		vehicles = append(vehicles, pricing.Vehicle{
			Plate:       plate,
			FrameNumber: cell(row, cols.frame),
			Brand:       cell(row, cols.brand),
			Model:       cell(row, cols.model),
			Mileage:     int(parseFloatOr(cell(row, cols.mileage), 0)),
			ModelYear:   int(parseFloatOr(cell(row, cols.year), 0)),
			BasePrice:   parseFloatOr(cell(row, cols.basePrice), 0),
			OfferPrice:  parseFloatOr(cell(row, cols.offerPrice), 0),
			ModelID:     cell(row, cols.modelID),
		})
	}

	return vehicles, nil
}

// vehicleColumns holds the resolved indices of the stock export columns
type vehicleColumns struct {
	plate      int
	frame      int
	brand      int
	model      int
	mileage    int
	year       int
	basePrice  int
	offerPrice int
	modelID    int
}

// missing returns the names of required columns that were not resolved.
// The model_id column is informational and not required.
func (c vehicleColumns) missing() []string {
	var missing []string
	if c.plate == -1 {
		missing = append(missing, ColPlate)
	}
	if c.frame == -1 {
		missing = append(missing, ColFrame)
	}
	if c.brand == -1 {
		missing = append(missing, ColBrand)
	}
	if c.model == -1 {
		missing = append(missing, ColModel)
	}
	if c.mileage == -1 {
		missing = append(missing, ColMileage)
	}
	if c.year == -1 {
		missing = append(missing, ColYear)
	}
	if c.basePrice == -1 {
		missing = append(missing, ColBasePrice)
	}
	if c.offerPrice == -1 {
		missing = append(missing, ColOfferPrice)
	}
	return missing
}

// resolveVehicleColumns finds column positions by normalized name
func resolveVehicleColumns(header []string) vehicleColumns {
	cols := vehicleColumns{
		plate: -1, frame: -1, brand: -1, model: -1, mileage: -1,
		year: -1, basePrice: -1, offerPrice: -1, modelID: -1,
	}

	for i, col := range header {
		switch normalizeHeader(col) {
		case "matricula", "plate":
			cols.plate = i
		case "frame_number", "framenumber":
			cols.frame = i
		case "brand", "marca":
			cols.brand = i
		case "model", "modelo":
			cols.model = i
		case "km", "mileage":
			cols.mileage = i
		case "ano", "year":
			cols.year = i
		case "precio base", "base_price":
			cols.basePrice = i
		case "oferta", "offer":
			cols.offerPrice = i
		case "model_id", "modelid":
			cols.modelID = i
		}
	}

	return cols
}

// normalizeHeader lower-cases, trims and strips BOM noise and accents from
// a header cell
func normalizeHeader(col string) string {
	clean := strings.TrimSpace(col)
	clean = strings.TrimPrefix(clean, "\ufeff")
	clean = strings.TrimLeft(clean, "\u200B\u200C\u200D\u2060\uFEFF")
	clean = strings.ToLower(strings.TrimSpace(clean))

	replacer := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")
	return replacer.Replace(clean)
}

// cell returns a trimmed cell value, tolerating short rows
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseFloatOr coerces a raw cell to a float, falling back to a default.
// Comma decimal separators are accepted.
func parseFloatOr(raw string, fallback float64) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// stripBOM removes a UTF-8 byte order mark prefix
func stripBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}
