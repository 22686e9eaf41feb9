package pricing

// Vehicle is one fleet unit from the stock export
type Vehicle struct {
	Plate       string  `json:"plate"`
	FrameNumber string  `json:"frame_number"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Mileage     int     `json:"mileage"`
	ModelYear   int     `json:"model_year"` // 0 when absent, imputed with the column median
	BasePrice   float64 `json:"base_price"`
	OfferPrice  float64 `json:"offer_price"` // 0 means no active offer
	ModelID     string  `json:"model_id"`
}

// LeadtimeEntry is the per-plate reference data joined from the leadtime
// workbook's Stock sheet
type LeadtimeEntry struct {
	LeadtimeDays float64 `json:"leadtime_days"`
	PurchaseCost float64 `json:"purchase_cost"`
}

// ReviewRow is one scored row of the pricing review table
type ReviewRow struct {
	Plate       string  `json:"plate"`
	FrameNumber string  `json:"frame_number"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Mileage     int     `json:"mileage"`
	ModelYear   int     `json:"model_year"`

	PurchaseCost float64 `json:"purchase_cost"`
	BasePrice    float64 `json:"base_price"`
	OfferPrice   float64 `json:"offer_price"`
	WebPrice     float64 `json:"web_price"`
	Margin       float64 `json:"margin"`
	MarginPct    float64 `json:"margin_pct"`

	Coefficient          float64 `json:"coefficient"`
	PriceVariation       float64 `json:"price_variation"`
	CoefficientVariation float64 `json:"coefficient_variation"`
	AdjustmentScore      float64 `json:"adjustment_score"`

	LeadtimeDays float64 `json:"leadtime_days"`
}

// Params configures one pricing review run
type Params struct {
	// ReferenceYear is the baseline year of the coefficient formula. The
	// rule set was tuned against 2024; callers must supply a current value
	// rather than rely on a stale default.
	ReferenceYear int

	// CurrentDay is the day of month added to the raw leadtime to project
	// it forward
	CurrentDay int
}

// IsValid checks that the parameters are usable
func (p Params) IsValid() bool {
	return p.ReferenceYear >= 2000 && p.ReferenceYear <= 2100 &&
		p.CurrentDay >= 1 && p.CurrentDay <= 31
}

// Thresholds of the scoring passes. These mirror the original rule set and
// are fixed: the passes are calibrated around them as a unit.
const (
	// CohortPriceGap is the minimum price premium of the highest-mileage
	// vehicle over the lowest-mileage one before the age-cohort pass fires
	CohortPriceGap = 2500.0

	// AdjacentMileageGap is the mileage difference under which two vehicles
	// of one model count as adjacent for the consistency pass
	AdjacentMileageGap = 2500

	// AdjacencyPenalty is the flat score added to an older vehicle priced
	// at or above a newer adjacent one
	AdjacencyPenalty = 200.0

	// MileagePerYear converts mileage to coefficient years
	MileagePerYear = 5000.0
)
