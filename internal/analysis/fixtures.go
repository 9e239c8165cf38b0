package analysis

import (
	"context"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/session"
	"overnight-range-lab/internal/storage"
)

// FixtureSymbol is the instrument the built-in fixture week trades.
const FixtureSymbol = "ES"

// FixtureStart and FixtureEnd bound the fixture week (Mon–Fri).
var (
	FixtureStart = domain.NewDate(2024, time.March, 11)
	FixtureEnd   = domain.NewDate(2024, time.March, 15)
)

// fixtureDay describes one synthetic session as OHLC waypoints per window.
// Each waypoint becomes a bar one minute after the previous, starting at the
// window open. Values are [open, high, low, close]. The morning legs start
// at 09:00 so they land inside both the outcome and extension windows; the
// afternoon legs start at 13:00 and belong to the outcome window only.
type fixtureDay struct {
	date           domain.Date
	overnight      [][4]float64
	classification [][4]float64
	morning        [][4]float64
	afternoon      [][4]float64
}

// The week covers a spread of scenarios: a mid-hold breakout (3), a
// touch-of-the-high inside day (17), a failure close under the low (6), a
// clean breakout without a low test (2), and a high-break reversal (4).
var fixtureDays = []fixtureDay{
	{
		// Monday: overnight 100–120, morning holds above mid 110 and
		// closes through the high. Day then holds the level and extends.
		date:           domain.NewDate(2024, time.March, 11),
		overnight:      [][4]float64{{104, 112, 100, 108}, {108, 120, 106, 118}},
		classification: [][4]float64{{118, 119, 112, 114}, {114, 122, 113, 121}, {121, 125, 120, 125}},
		morning:        [][4]float64{{125, 128, 121, 126}, {126, 130, 122, 129}},
		afternoon:      [][4]float64{{129, 131, 124, 127}},
	},
	{
		// Tuesday: morning holds the upper half and closes exactly on the
		// overnight high without trading through it.
		date:           domain.NewDate(2024, time.March, 12),
		overnight:      [][4]float64{{110, 120, 100, 105}, {105, 118, 102, 112}},
		classification: [][4]float64{{112, 116, 110, 114}, {114, 120, 111, 120}},
		morning:        [][4]float64{{120, 122, 115, 118}},
		afternoon:      [][4]float64{{118, 119, 109, 112}},
	},
	{
		// Wednesday: morning stays under the mid and closes below the
		// overnight low.
		date:           domain.NewDate(2024, time.March, 13),
		overnight:      [][4]float64{{112, 120, 104, 110}, {110, 118, 100, 106}},
		classification: [][4]float64{{106, 108, 96, 98}, {98, 104, 95, 97}},
		morning:        [][4]float64{{97, 102, 92, 95}},
		afternoon:      [][4]float64{{95, 99, 90, 92}},
	},
	{
		// Thursday: morning never tests the low and closes above the high.
		date:           domain.NewDate(2024, time.March, 14),
		overnight:      [][4]float64{{100, 115, 98, 104}, {104, 114, 99, 110}},
		classification: [][4]float64{{110, 113, 105, 109}, {109, 117, 108, 116}},
		morning:        [][4]float64{{116, 121, 112, 119}},
		afternoon:      [][4]float64{{119, 123, 114, 120}},
	},
	{
		// Friday: morning breaks the overnight high then closes below mid.
		date:           domain.NewDate(2024, time.March, 15),
		overnight:      [][4]float64{{105, 116, 100, 110}, {110, 115, 101, 108}},
		classification: [][4]float64{{108, 118, 107, 112}, {112, 114, 103, 105}},
		morning:        [][4]float64{{105, 107, 98, 101}},
		afternoon:      [][4]float64{{101, 106, 97, 100}},
	},
}

// LoadFixtures seeds the bar store with a deterministic trading week so the
// pipeline can run without a live database.
func LoadFixtures(ctx context.Context, bars storage.BarStore) error {
	var all []*domain.MinuteBar
	for _, day := range fixtureDays {
		morningStart := day.date.At(9, 0, session.ET)
		afternoonStart := day.date.At(13, 0, session.ET)

		for _, wb := range []struct {
			start time.Time
			legs  [][4]float64
		}{
			{windowStart(session.WindowOvernight, day.date), day.overnight},
			{windowStart(session.WindowClassification, day.date), day.classification},
			{morningStart, day.morning},
			{afternoonStart, day.afternoon},
		} {
			for i, leg := range wb.legs {
				all = append(all, &domain.MinuteBar{
					Symbol:    FixtureSymbol,
					Timestamp: wb.start.Add(time.Duration(i) * time.Minute).UTC(),
					Open:      leg[0],
					High:      leg[1],
					Low:       leg[2],
					Close:     leg[3],
					Volume:    1000,
				})
			}
		}
	}
	return bars.InsertBulk(ctx, all)
}

func windowStart(w session.Window, d domain.Date) time.Time {
	start, _, err := session.Bounds(w, d)
	if err != nil {
		panic(err)
	}
	return start
}
