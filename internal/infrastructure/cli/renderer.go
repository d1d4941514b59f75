package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/doeshing/heartrisk-go/internal/application/compare"
	"github.com/doeshing/heartrisk-go/internal/domain"
)

const barWidth = 40

// RenderResult prints a result view in a plain-text layout.
func RenderResult(out io.Writer, view domain.ResultView) {
	headline := "LOW RISK"
	if view.IsHighRisk {
		headline = "HIGH RISK"
	}
	fmt.Fprintf(out, "%s - %s (class %d)\n", headline, view.Outcome.Label, view.Outcome.PredictedClass)
	if view.Outcome.ModelUsed != "" {
		fmt.Fprintf(out, "Model: %s\n", view.Outcome.ModelUsed)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Risk probability: %s%%  [%s]\n", view.RiskPercentage, bar(view.RiskTenths))
	fmt.Fprintf(out, "Risk level:       %s\n", view.TierLabel)
	for _, slice := range view.Slices {
		fmt.Fprintf(out, "  %-10s %6s%%\n", slice.Name, slice.Percentage)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, view.Interpretation)

	if len(view.Recommendations) > 0 {
		fmt.Fprintln(out, "\nRecommendations:")
		for _, rec := range view.Recommendations {
			fmt.Fprintf(out, " - %s\n", rec)
		}
	}
}

// RenderModels lists model identifiers, marking the recommended one.
func RenderModels(out io.Writer, models []string, recommended, source string) {
	fmt.Fprintf(out, "Models (%s):\n", source)
	for _, m := range models {
		marker := " "
		if m == recommended {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %s\n", marker, m)
	}
	if recommended != "" {
		fmt.Fprintln(out, "\n* recommended")
	}
}

// RenderComparison prints one row per model.
func RenderComparison(out io.Writer, results []compare.Result) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tCLASS\tLABEL\tRISK\tLEVEL\tLATENCY")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t%s\t-\t-\t%s\n", r.Model, domain.MessageFor(r.Err), r.Latency.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s%%\t%s\t%s\n",
			r.Model,
			r.View.Outcome.PredictedClass,
			r.View.Outcome.Label,
			r.View.RiskPercentage,
			r.View.TierLabel,
			r.Latency.Round(time.Millisecond))
	}
	tw.Flush()
}

// RenderFields prints the wire key, label, accepted values and default of every field.
func RenderFields(out io.Writer, defaults domain.PatientAttributes) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tVALUES\tDEFAULT")
	for _, spec := range domain.FieldSpecs() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", spec.Field, fieldLabel(spec), fieldValues(spec), defaults.Value(spec.Field))
	}
	tw.Flush()
}

func fieldLabel(spec domain.FieldSpec) string {
	if spec.Unit == "" {
		return spec.Label
	}
	return fmt.Sprintf("%s (%s)", spec.Label, spec.Unit)
}

func fieldValues(spec domain.FieldSpec) string {
	switch spec.Kind {
	case domain.FieldKindBool:
		return "true | false"
	case domain.FieldKindChoice:
		parts := make([]string, 0, len(spec.Options))
		for _, opt := range spec.Options {
			parts = append(parts, fmt.Sprintf("%s=%d", opt.Value, opt.Code))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%g..%g step %g", spec.Min, spec.Max, spec.Step)
	}
}

func bar(tenths int) string {
	filled := tenths * barWidth / 1000
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
}
