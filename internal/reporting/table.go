package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"overnight-range-lab/internal/domain"
)

// WriteTable renders scenario rows as an aligned text table.
func WriteTable(w io.Writer, rows []Row) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{
			"Scenario", "Days", "% Total",
			"Above Mid", "Above 06-09 Low", "Above 18-09 Low", "New High",
			"Below Mid", "Below 06-09 High", "Below 18-09 High", "New Low",
		}),
	)

	for _, r := range rows {
		bull := domain.IsBullScenario(r.Scenario)
		bear := domain.IsBearScenario(r.Scenario)
		table.Append([]string{
			r.Label,
			fmt.Sprintf("%d", r.Days),
			fmt.Sprintf("%.1f%%", r.PctOfTotal),
			sideCell(bull, r.DaysAboveMid, r.PctAboveMid),
			sideCell(bull, r.DaysAboveMorningLow, r.PctAboveMorningLow),
			sideCell(bull, r.DaysAboveSessionLow, r.PctAboveSessionLow),
			sideCell(bull, r.DaysNewHigh, r.PctNewHigh),
			sideCell(bear, r.DaysBelowMid, r.PctBelowMid),
			sideCell(bear, r.DaysBelowMorningHigh, r.PctBelowMorningHigh),
			sideCell(bear, r.DaysBelowSessionHigh, r.PctBelowSessionHigh),
			sideCell(bear, r.DaysNewLow, r.PctNewLow),
		})
	}

	return table.Render()
}
