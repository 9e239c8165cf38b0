package reporting

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"overnight-range-lab/internal/analysis"
	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/overnight"
	"overnight-range-lab/internal/storage/memory"
)

var testClock = func() time.Time {
	return time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC)
}

func fixtureReport(t *testing.T, scenarios []int) *ScenarioReport {
	t.Helper()
	ctx := context.Background()

	bars := memory.NewBarStore()
	require.NoError(t, analysis.LoadFixtures(ctx, bars))

	runner := analysis.NewRunner(analysis.RunnerOptions{Bars: bars})
	res, err := runner.Run(ctx, analysis.FixtureSymbol, analysis.FixtureStart, analysis.FixtureEnd)
	require.NoError(t, err)

	return NewBuilder().WithClock(testClock).ScenarioReport(res, scenarios)
}

func TestScenarioReport_AllRows(t *testing.T) {
	report := fixtureReport(t, nil)

	require.Equal(t, 5, report.TotalDays)
	require.Equal(t, 5, report.ClassifiedDays)
	require.Len(t, report.Rows, domain.ScenarioCount)
	require.Equal(t, testClock(), report.GeneratedAt)

	require.Equal(t, "1", report.Rows[0].Label)
	require.Equal(t, "7 (A)", report.Rows[6].Label)
	require.Equal(t, "17 (K)", report.Rows[16].Label)

	// Rows come back in scenario order.
	for i, r := range report.Rows {
		require.Equal(t, i+1, r.Scenario)
	}
}

func TestScenarioReport_Filter(t *testing.T) {
	report := fixtureReport(t, []int{3, 6})

	require.Len(t, report.Rows, 2)
	require.Equal(t, 3, report.Rows[0].Scenario)
	require.Equal(t, 6, report.Rows[1].Scenario)

	// Totals still describe the whole run.
	require.Equal(t, 5, report.ClassifiedDays)
	require.InDelta(t, 20.0, report.Rows[0].PctOfTotal, 1e-9)
}

func TestRenderCSV(t *testing.T) {
	report := fixtureReport(t, nil)
	out := RenderCSV(report.Rows)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1+domain.ScenarioCount)
	require.True(t, strings.HasPrefix(lines[0], "scenario,label,total_days,pct_of_total,"))

	// Scenario 3: one day of five, held above mid and made a new high.
	require.Equal(t,
		"3,3,1,20.0000,1,100.0000,1,100.0000,1,100.0000,0,0.0000,0,0.0000,0,0.0000,1,100.0000,0,0.0000",
		lines[3])

	// Empty scenario renders all zeros.
	require.Equal(t,
		"1,1,0,0.0000,0,0.0000,0,0.0000,0,0.0000,0,0.0000,0,0.0000,0,0.0000,0,0.0000,0,0.0000",
		lines[1])
}

func TestRenderMarkdown(t *testing.T) {
	report := fixtureReport(t, nil)
	out := RenderMarkdown(report)

	require.Contains(t, out, "# Overnight Range Scenarios: ES")
	require.Contains(t, out, "| Classified days | 5 |")
	require.Contains(t, out, "| 3 | 1 | 20.0% | 1 (100.0%) |")
	require.Contains(t, out, "- Scenario 3: 2024-03-11")

	// Bear side of a bull scenario shows dashes.
	require.Contains(t, out, "| 3 | 1 | 20.0% | 1 (100.0%) | 1 (100.0%) | 1 (100.0%) | 1 (100.0%) | - | - | - | - |")
}

func TestWriteTable(t *testing.T) {
	report := fixtureReport(t, []int{3})

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, report.Rows))
	out := buf.String()

	require.Contains(t, strings.ToUpper(out), "SCENARIO")
	require.Contains(t, out, "20.0%")
}

func TestRenderRanges(t *testing.T) {
	ctx := context.Background()
	bars := memory.NewBarStore()
	require.NoError(t, analysis.LoadFixtures(ctx, bars))

	extractor := overnight.NewExtractor(bars)
	results, err := extractor.Ranges(ctx, analysis.FixtureSymbol,
		analysis.FixtureStart, analysis.FixtureStart.AddDays(7)) // into the empty next week
	require.NoError(t, err)

	out := RenderRanges(analysis.FixtureSymbol, results)
	require.Contains(t, out, "Overnight range (ES)")
	require.Contains(t, out, "2024-03-11  18:00 - 06:00 EDT  H=120 L=100 Mid=110")
	require.Contains(t, out, "2024-03-18  18:00 - 06:00 EDT  (no data)")

	jsonOut, err := RenderRangesJSON(results)
	require.NoError(t, err)
	require.Contains(t, jsonOut, `"session_date": "2024-03-11"`)
	require.Contains(t, jsonOut, `"high": 120`)
	require.Contains(t, jsonOut, `"high": null`)
}
