package reporting

import (
	"fmt"
	"strings"
	"time"

	"overnight-range-lab/internal/domain"
)

// RenderMarkdown renders a scenario report as Markdown.
func RenderMarkdown(r *ScenarioReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Overnight Range Scenarios: %s\n\n", r.Symbol))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Range: %s to %s\n\n", r.Start, r.End))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Weekdays in range | %d |\n", r.TotalDays))
	sb.WriteString(fmt.Sprintf("| Classified days | %d |\n", r.ClassifiedDays))
	sb.WriteString(fmt.Sprintf("| No-data days | %d |\n", r.NoDataDays))
	sb.WriteString("\n")

	sb.WriteString("## Scenarios\n\n")
	writeScenarioTable(&sb, r.Rows)

	if len(r.DatesByScenario) > 0 {
		sb.WriteString("## Dates by Scenario\n\n")
		for s := 1; s <= domain.ScenarioCount; s++ {
			dates := r.DatesByScenario[s]
			if len(dates) == 0 {
				continue
			}
			parts := make([]string, 0, len(dates))
			for _, d := range dates {
				parts = append(parts, d.String())
			}
			sb.WriteString(fmt.Sprintf("- Scenario %s: %s\n", ScenarioLabel(s), strings.Join(parts, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderRegimeMarkdown renders the paired above/below report as Markdown.
func RenderRegimeMarkdown(r *RegimeReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# NFP Regime Scenarios: %s\n\n", r.Symbol))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Range: %s to %s\n\n", r.Start, r.End))
	sb.WriteString(fmt.Sprintf("Days above release: %d | below: %d | no release: %d\n\n",
		r.AboveDays, r.BelowDays, r.NoReleaseDays))

	sb.WriteString("## 09:00 Close Above Release\n\n")
	writeScenarioTable(&sb, r.Above)
	sb.WriteString("## 09:00 Close Below Release\n\n")
	writeScenarioTable(&sb, r.Below)

	return sb.String()
}

func writeScenarioTable(sb *strings.Builder, rows []Row) {
	sb.WriteString("| Scenario | Days | % Total | Above Mid | Above 06-09 Low | Above 18-09 Low | New High | Below Mid | Below 06-09 High | Below 18-09 High | New Low |\n")
	sb.WriteString("|----------|------|---------|-----------|-----------------|-----------------|----------|-----------|------------------|------------------|--------|\n")
	for _, r := range rows {
		bull := domain.IsBullScenario(r.Scenario)
		bear := domain.IsBearScenario(r.Scenario)
		sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Label,
			r.Days,
			r.PctOfTotal,
			sideCell(bull, r.DaysAboveMid, r.PctAboveMid),
			sideCell(bull, r.DaysAboveMorningLow, r.PctAboveMorningLow),
			sideCell(bull, r.DaysAboveSessionLow, r.PctAboveSessionLow),
			sideCell(bull, r.DaysNewHigh, r.PctNewHigh),
			sideCell(bear, r.DaysBelowMid, r.PctBelowMid),
			sideCell(bear, r.DaysBelowMorningHigh, r.PctBelowMorningHigh),
			sideCell(bear, r.DaysBelowSessionHigh, r.PctBelowSessionHigh),
			sideCell(bear, r.DaysNewLow, r.PctNewLow),
		))
	}
	sb.WriteString("\n")
}

// sideCell formats a count/percentage pair, or a dash for the side a
// scenario does not report.
func sideCell(applicable bool, days int, pct float64) string {
	if !applicable {
		return "-"
	}
	return fmt.Sprintf("%d (%.1f%%)", days, pct)
}
