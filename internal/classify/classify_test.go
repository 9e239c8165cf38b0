package classify

import (
	"errors"
	"testing"
	"time"

	"overnight-range-lab/internal/domain"
)

// Fixed range used throughout: L=100, M=110, H=120.
var testRange = domain.NewOvernightRange(120, 100)

func stats(minLow, maxHigh, close float64) domain.WindowStats {
	return domain.WindowStats{MinLow: minLow, MaxHigh: maxHigh, Close: close}
}

func mustClassify(t *testing.T, ws domain.WindowStats) int {
	t.Helper()
	s, err := FromStats(testRange, ws)
	if err != nil {
		t.Fatalf("FromStats(%+v): %v", ws, err)
	}
	return s
}

func TestFromStats_PinnedScenarios(t *testing.T) {
	cases := []struct {
		name     string
		ws       domain.WindowStats
		scenario int
	}{
		{"dip below low close above mid", stats(98, 113, 112), 1},
		{"held low close above high", stats(105, 122, 121), 2},
		{"held mid close above high", stats(112, 122, 121), 3},
		{"spike above high close below mid", stats(101, 121, 108), 4},
		{"held high close below low", stats(97, 118, 99), 5},
		{"held mid close below low", stats(97, 108, 99), 6},
		{"dip below low close at or below mid", stats(98, 109, 105), 7},
		{"held low close back above mid", stats(105, 117, 115), 8},
		{"held low close at or below mid", stats(105, 112, 108), 9},
		{"held mid close back inside", stats(111, 118, 115), 11},
		{"spike above high close exactly at high", stats(112, 121, 120), 12},
		{"never left the range", stats(105, 118, 112), 17},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustClassify(t, tc.ws); got != tc.scenario {
				t.Errorf("scenario = %d, want %d", got, tc.scenario)
			}
		})
	}
}

// The rule table is ordered and the first match wins. Several late rules
// are residual safety nets whose nominal regions are fully covered by
// earlier rules; these cases pin that shadowing so a reordering cannot
// slip in silently.
func TestFromStats_FirstMatchShadowing(t *testing.T) {
	cases := []struct {
		name     string
		ws       domain.WindowStats
		scenario int
	}{
		// Spike above high with a close in [L, M) belongs to 4, not 13.
		{"scenario 13 region routes to 4", stats(103, 121, 105), 4},
		// Spike above high with a close below L belongs to 4, not 14.
		{"scenario 14 region routes to 4", stats(99, 121, 98), 4},
		// Held high, dipped below low, close above mid: 1 wins over 15.
		{"scenario 15 region routes to 1", stats(98, 118, 112), 1},
		// Stayed inside: 17 wins over 15 and 16.
		{"inside range routes to 17 not 15", stats(104, 115, 111), 17},
		{"inside lower half routes to 17 not 16", stats(102, 108, 104), 17},
		// Spike above high with min in [L, M) and close in (M, H]: 8 wins over 12.
		{"scenario 12 region with low dip routes to 8", stats(104, 121, 115), 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustClassify(t, tc.ws); got != tc.scenario {
				t.Errorf("scenario = %d, want %d", got, tc.scenario)
			}
		})
	}
}

// Exact-equality boundary cases for the inclusive/exclusive table.
func TestFromStats_BoundaryEqualities(t *testing.T) {
	cases := []struct {
		name     string
		ws       domain.WindowStats
		scenario int
	}{
		// close exactly at mid is the <=-branch everywhere.
		{"close at mid after dip below low", stats(98, 112, 110), 7},
		{"close at mid after holding low", stats(105, 112, 110), 9},
		{"close at mid after holding mid", stats(110, 115, 110), 11},
		// close exactly at high is not "above high" (strict close > H).
		{"close at high after dipping below mid", stats(105, 120, 120), 8},
		{"close at high holding mid max above high", stats(112, 121, 120), 12},
		{"close at high inside range", stats(112, 120, 120), 17},
		// min exactly at low counts as holding the low.
		{"min at low close above high", stats(100, 122, 121), 2},
		// min exactly at mid counts as holding the mid.
		{"min at mid close above high", stats(110, 122, 121), 3},
		// max exactly at high counts as holding the high.
		{"max at high close below low", stats(96, 120, 97), 5},
		// max exactly at mid counts as holding the mid.
		{"max at mid close below low", stats(96, 110, 97), 6},
		// close exactly at low stays classifiable.
		{"close at low inside range", stats(100, 118, 100), 17},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustClassify(t, tc.ws); got != tc.scenario {
				t.Errorf("scenario = %d, want %d", got, tc.scenario)
			}
		})
	}
}

// Every consistent (minLow <= close <= maxHigh) input over a dense grid of
// boundary-straddling values classifies to exactly one scenario.
func TestFromStats_ExhaustiveOverBoundaryGrid(t *testing.T) {
	// Values straddling L=100, M=110, H=120 plus exact boundaries.
	values := []float64{96, 98, 100, 100.25, 104, 108, 110, 110.25, 114, 118, 120, 120.25, 124}

	checked := 0
	seen := make(map[int]int)
	for _, minLow := range values {
		for _, close := range values {
			if close < minLow {
				continue
			}
			for _, maxHigh := range values {
				if maxHigh < close {
					continue
				}
				s, err := FromStats(testRange, stats(minLow, maxHigh, close))
				if err != nil {
					t.Fatalf("unclassified input min=%g max=%g close=%g: %v", minLow, maxHigh, close, err)
				}
				if s < 1 || s > domain.ScenarioCount {
					t.Fatalf("scenario out of range: %d", s)
				}
				seen[s]++
				checked++
			}
		}
	}

	if checked == 0 {
		t.Fatal("grid produced no inputs")
	}
	// The reachable scenarios must all appear somewhere on the grid.
	for _, want := range []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 11, 12, 17} {
		if seen[want] == 0 {
			t.Errorf("scenario %d never produced by the grid", want)
		}
	}
}

// Classification is a pure function: same input, same label.
func TestFromStats_Deterministic(t *testing.T) {
	ws := stats(104, 121, 115)
	first := mustClassify(t, ws)
	for i := 0; i < 100; i++ {
		if got := mustClassify(t, ws); got != first {
			t.Fatalf("classification changed between runs: %d vs %d", first, got)
		}
	}
}

func classBar(open, high, low, close float64, minute int) *domain.MinuteBar {
	return &domain.MinuteBar{
		Symbol:    "NQ",
		Timestamp: time.Date(2024, time.June, 12, 10, minute, 0, 0, time.UTC),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    1,
	}
}

func TestStats(t *testing.T) {
	bars := []*domain.MinuteBar{
		classBar(112, 114, 111, 113, 0),
		classBar(113, 118, 112, 117, 1),
		classBar(117, 117.5, 105, 106, 2),
		classBar(106, 112.5, 106, 112, 3),
	}

	ws, ok := Stats(bars)
	if !ok {
		t.Fatal("Stats reported empty window")
	}
	if ws.MinLow != 105 {
		t.Errorf("MinLow = %g, want 105", ws.MinLow)
	}
	if ws.MaxHigh != 118 {
		t.Errorf("MaxHigh = %g, want 118", ws.MaxHigh)
	}
	if ws.Close != 112 {
		t.Errorf("Close = %g, want 112 (last bar's close)", ws.Close)
	}
}

func TestStats_Empty(t *testing.T) {
	if _, ok := Stats(nil); ok {
		t.Error("Stats(nil) reported a non-empty window")
	}
}

// Overnight L=100, H=120 (M=110); window never trades below 110 and
// closes at 125 above the high.
func TestClassify_HeldMidBreakoutDay(t *testing.T) {
	rng := testRange
	bars := []*domain.MinuteBar{
		classBar(115, 116, 115, 115.5, 0),
		classBar(115.5, 122, 115, 121, 1),
		classBar(121, 125.5, 120.5, 125, 2),
	}

	s, ws, err := Classify(&rng, bars)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if s != 3 {
		t.Errorf("scenario = %d, want 3", s)
	}
	if ws.Close != 125 {
		t.Errorf("close = %g, want 125", ws.Close)
	}
}

// Overnight L=100, H=120; window stays inside [105, 118] and closes 112.
func TestClassify_InsideRangeDay(t *testing.T) {
	rng := testRange
	bars := []*domain.MinuteBar{
		classBar(110, 118, 108, 109, 0),
		classBar(109, 112, 105, 111, 1),
		classBar(111, 113, 110, 112, 2),
	}

	s, _, err := Classify(&rng, bars)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if s != 17 {
		t.Errorf("scenario = %d, want 17", s)
	}
}

func TestClassify_InsufficientData(t *testing.T) {
	rng := testRange

	if _, _, err := Classify(nil, []*domain.MinuteBar{classBar(110, 111, 109, 110, 0)}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("nil range: expected ErrInsufficientData, got %v", err)
	}
	if _, _, err := Classify(&rng, nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("empty window: expected ErrInsufficientData, got %v", err)
	}
}
