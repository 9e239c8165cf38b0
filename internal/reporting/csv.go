package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders scenario rows as a CSV document. Percentages keep four
// decimals so downstream charting does not lose precision.
func RenderCSV(rows []Row) string {
	var sb strings.Builder

	sb.WriteString("scenario,label,total_days,pct_of_total,")
	sb.WriteString("days_above_overnight_mid,pct_above_overnight_mid,")
	sb.WriteString("days_above_0609_low,pct_above_0609_low,")
	sb.WriteString("days_above_18_09_low,pct_above_18_09_low,")
	sb.WriteString("days_below_overnight_mid,pct_below_overnight_mid,")
	sb.WriteString("days_below_0609_high,pct_below_0609_high,")
	sb.WriteString("days_below_18_09_high,pct_below_18_09_high,")
	sb.WriteString("days_new_high_09_1130,pct_new_high_09_1130,")
	sb.WriteString("days_new_low_09_1130,pct_new_low_09_1130\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%d,%.4f,%d,%.4f,%d,%.4f,%d,%.4f,%d,%.4f,%d,%.4f,%d,%.4f,%d,%.4f,%d,%.4f\n",
			r.Scenario,
			r.Label,
			r.Days,
			r.PctOfTotal,
			r.DaysAboveMid,
			r.PctAboveMid,
			r.DaysAboveMorningLow,
			r.PctAboveMorningLow,
			r.DaysAboveSessionLow,
			r.PctAboveSessionLow,
			r.DaysBelowMid,
			r.PctBelowMid,
			r.DaysBelowMorningHigh,
			r.PctBelowMorningHigh,
			r.DaysBelowSessionHigh,
			r.PctBelowSessionHigh,
			r.DaysNewHigh,
			r.PctNewHigh,
			r.DaysNewLow,
			r.PctNewLow,
		))
	}

	return sb.String()
}
