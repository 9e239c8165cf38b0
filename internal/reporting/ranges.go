package reporting

import (
	"encoding/json"
	"fmt"
	"strings"

	"overnight-range-lab/internal/overnight"
	"overnight-range-lab/internal/session"
)

// RenderRanges renders overnight range results as a plain text listing, one
// line per session date.
func RenderRanges(symbol string, results []*overnight.RangeResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Overnight range (%s): 18:00 ET previous day -> 06:00 ET session date\n\n", symbol))
	for _, r := range results {
		window := fmt.Sprintf("%s - %s %s",
			r.StartET.Format("15:04"),
			r.EndET.Format("15:04"),
			session.TZAbbrev(r.EndET))
		if r.Range == nil {
			sb.WriteString(fmt.Sprintf("  %s  %s  (no data)\n", r.SessionDate, window))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  H=%g L=%g Mid=%g  bars=%d\n",
			r.SessionDate, window, r.Range.High, r.Range.Low, r.Range.Mid, r.BarCount))
	}

	return sb.String()
}

// rangeJSON is the per-day shape of the JSON range listing.
type rangeJSON struct {
	SessionDate string   `json:"session_date"`
	High        *float64 `json:"high"`
	Low         *float64 `json:"low"`
	Mid         *float64 `json:"mid"`
	BarCount    int      `json:"bar_count"`
}

// RenderRangesJSON renders overnight range results as indented JSON. Days
// without data carry null levels.
func RenderRangesJSON(results []*overnight.RangeResult) (string, error) {
	out := make([]rangeJSON, 0, len(results))
	for _, r := range results {
		row := rangeJSON{SessionDate: r.SessionDate.String(), BarCount: r.BarCount}
		if r.Range != nil {
			high, low, mid := r.Range.High, r.Range.Low, r.Range.Mid
			row.High, row.Low, row.Mid = &high, &low, &mid
		}
		out = append(out, row)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal range listing: %w", err)
	}
	return string(data), nil
}
