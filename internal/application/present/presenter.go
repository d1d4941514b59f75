// Package present turns a prediction outcome into everything the result panel shows.
// It is pure: the same outcome always yields the same view.
package present

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

const (
	colorLow  = "#10b981"
	colorHigh = "#ef4444"

	// donutStart rotates the first slice to twelve o'clock.
	donutStart = 25.0
)

var (
	highRiskRecommendations = []string{
		"Consult a cardiologist promptly.",
		"Follow up with further examinations as advised by your doctor.",
		"Monitor blood pressure and cholesterol regularly.",
		"Adopt a healthy lifestyle and exercise regularly.",
	}
	lowRiskRecommendations = []string{
		"Keep up your current healthy lifestyle.",
		"Have routine health check-ups.",
		"Stay active with regular exercise.",
		"Review your risk factors periodically.",
	}
)

// Present derives the result view of outcome.
func Present(outcome domain.PredictionOutcome) domain.ResultView {
	tenths := RiskTenths(outcome.Probability)
	complement := 1000 - tenths

	view := domain.ResultView{
		Outcome:              outcome,
		IsHighRisk:           outcome.PredictedClass == 1,
		RiskTenths:           tenths,
		RiskPercentage:       FormatTenths(tenths),
		ComplementPercentage: FormatTenths(complement),
		Tier:                 TierFor(tenths),
	}
	view.TierLabel = view.Tier.Label()
	view.Slices = chartSlices(tenths, complement)
	view.Interpretation = interpretation(outcome, view.RiskPercentage)
	if view.IsHighRisk {
		view.Recommendations = append([]string(nil), highRiskRecommendations...)
	} else {
		view.Recommendations = append([]string(nil), lowRiskRecommendations...)
	}
	return view
}

// RiskTenths returns probability*100 rounded half-up to one decimal place, in tenths
// of a percent. Rounding works on the shortest decimal form of p, so 0.995 gives 995.
func RiskTenths(p float64) int {
	if !(p > 0) {
		return 0
	}
	if p >= 1 {
		return 1000
	}
	s := strconv.FormatFloat(p, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	for len(frac) < 4 {
		frac += "0"
	}
	whole, _ := strconv.Atoi(intPart + frac[:3])
	if frac[3] >= '5' {
		whole++
	}
	return whole
}

// FormatTenths renders 820 as "82.0".
func FormatTenths(tenths int) string {
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// TierFor buckets a risk percentage given in tenths. Lower bounds are inclusive.
func TierFor(tenths int) domain.RiskTier {
	switch {
	case tenths < domain.MediumRiskTenths:
		return domain.RiskLow
	case tenths < domain.HighRiskTenths:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func chartSlices(tenths, complement int) []domain.ChartSlice {
	low := domain.ChartSlice{
		Name:       "Low risk",
		Tenths:     complement,
		Percentage: FormatTenths(complement),
		Color:      colorLow,
	}
	high := domain.ChartSlice{
		Name:       "High risk",
		Tenths:     tenths,
		Percentage: FormatTenths(tenths),
		Color:      colorHigh,
	}

	offset := donutStart
	out := []domain.ChartSlice{low, high}
	for i := range out {
		dash := float64(out[i].Tenths) / 10
		out[i].Dash = dash
		out[i].Gap = 100 - dash
		out[i].Offset = offset
		offset -= dash
	}
	return out
}

func interpretation(outcome domain.PredictionOutcome, pct string) string {
	model := outcome.ModelUsed
	if model == "" {
		model = "the selected model"
	}
	return fmt.Sprintf("%s classifies the patient as %q with an estimated risk probability of %s%%.",
		model, outcome.Label, pct)
}
