package anomaly

// Epsilon guards divisions when a row is constant (MAD = 0) or a prior
// period value is zero.
const Epsilon = 1e-9

// DefaultPeriodVocabulary is the canonical ordered 12-month vocabulary used
// by the monthly accounting exports (Spanish month abbreviations).
var DefaultPeriodVocabulary = []string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// Thresholds configure the three anomaly rules. Defaults are domain-tuned
// starting points and should be treated as configurable, not load-bearing.
type Thresholds struct {
	ZScore     float64 `json:"z_score"`     // robust z-score rule threshold
	PctChange  float64 `json:"pct_change"`  // absolute month-over-month change rule threshold
	NoiseFloor float64 `json:"noise_floor"` // minimum |value| for any rule to fire
}

// DefaultThresholds returns the recommended default thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		ZScore:     3.5,
		PctChange:  1.0,
		NoiseFloor: 1.0,
	}
}

// IsValid checks that the thresholds are usable
func (t Thresholds) IsValid() bool {
	return t.ZScore > 0 && t.PctChange > 0 && t.NoiseFloor >= 0
}

// Matrix is a dense category by period matrix of summed values. Every row
// has exactly the canonical period columns, in canonical order, regardless
// of which periods appeared in the source data; absent combinations are 0.
type Matrix struct {
	Categories []string    `json:"categories"`
	Periods    []string    `json:"periods"`
	Values     [][]float64 `json:"values"` // len(Categories) rows of len(Periods) cells
}

// Row returns the values of row i
func (m *Matrix) Row(i int) []float64 {
	return m.Values[i]
}

// Cell is one anomalous matrix cell with the statistics that flagged it.
// Severity is used only for ranking, never for classification.
type Cell struct {
	Category  string   `json:"category"`
	Period    string   `json:"period"`
	Value     float64  `json:"value"`
	RobustZ   float64  `json:"robust_z"`
	PctChange *float64 `json:"pct_change"` // nil for the first period, which has no prior value
	SignFlip  bool     `json:"sign_flip"`
	Severity  float64  `json:"severity"`

	// Which rules fired (logical OR classifies the cell)
	ZRule    bool `json:"z_rule"`
	PctRule  bool `json:"pct_rule"`
	FlipRule bool `json:"flip_rule"`
}

// CategorySummary aggregates anomaly results for one category row
type CategorySummary struct {
	Category        string  `json:"category"`
	AnomalousMonths int     `json:"anomalous_months"`
	CV              float64 `json:"cv"`
	Median          float64 `json:"median"`
	MAD             float64 `json:"mad"`
	TotalAbs        float64 `json:"total_abs"`
}

// Report is the full output of one anomaly detection run
type Report struct {
	Summary []CategorySummary `json:"summary"`
	Detail  []Cell            `json:"detail"`
}
