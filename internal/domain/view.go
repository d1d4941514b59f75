package domain

// RiskTier buckets the risk percentage for colour coding.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Label returns the display text of the tier.
func (t RiskTier) Label() string {
	switch t {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return string(t)
	}
}

// ResultView is everything the result panel renders. It is derived from a
// PredictionOutcome and never mutated afterwards.
type ResultView struct {
	Outcome              PredictionOutcome `json:"outcome"`
	IsHighRisk           bool              `json:"is_high_risk"`
	RiskTenths           int               `json:"risk_tenths"`
	RiskPercentage       string            `json:"risk_percentage"`
	ComplementPercentage string            `json:"complement_percentage"`
	Tier                 RiskTier          `json:"risk_tier"`
	TierLabel            string            `json:"risk_tier_label"`
	Slices               []ChartSlice      `json:"slices"`
	Interpretation       string            `json:"interpretation"`
	Recommendations      []string          `json:"recommendations"`
}

// ChartSlice is one segment of the risk distribution charts. Dash, Gap and Offset
// are lengths on a circle whose circumference is 100.
type ChartSlice struct {
	Name       string  `json:"name"`
	Tenths     int     `json:"tenths"`
	Percentage string  `json:"percentage"`
	Color      string  `json:"color"`
	Dash       float64 `json:"-"`
	Gap        float64 `json:"-"`
	Offset     float64 `json:"-"`
}
