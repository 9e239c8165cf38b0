// Package graphics exports per-day chart payloads: everything a renderer
// needs to draw one session (overnight levels, window boundaries, and the
// 06:00–11:30 bars) as a JSON document filed under the day's scenario.
package graphics

import (
	"time"

	"overnight-range-lab/internal/domain"
)

// BarPoint is one candlestick in the payload. Timestamps are RFC 3339 in
// exchange-local time so a renderer can place them without zone logic.
type BarPoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// DayGraphic is the full payload for one session date.
type DayGraphic struct {
	Symbol      string `json:"symbol"`
	SessionDate string `json:"session_date"`
	Scenario    int    `json:"scenario"`
	Letter      string `json:"letter,omitempty"`
	Description string `json:"description"`

	OvernightHigh float64 `json:"overnight_high"`
	OvernightMid  float64 `json:"overnight_mid"`
	OvernightLow  float64 `json:"overnight_low"`

	MorningStart time.Time `json:"morning_start"`
	SessionOpen  time.Time `json:"session_open"`
	ExtensionEnd time.Time `json:"extension_end"`

	Bars []BarPoint `json:"bars"`
}

func newDayGraphic(c *domain.DayClassification, bars []*domain.MinuteBar, loc *time.Location) *DayGraphic {
	g := &DayGraphic{
		Symbol:        c.Symbol,
		SessionDate:   c.SessionDate.String(),
		Scenario:      c.Scenario,
		Letter:        domain.ScenarioLetter(c.Scenario),
		Description:   domain.ScenarioDescription(c.Scenario),
		OvernightHigh: c.Range.High,
		OvernightMid:  c.Range.Mid,
		OvernightLow:  c.Range.Low,
		MorningStart:  c.SessionDate.At(6, 0, loc),
		SessionOpen:   c.SessionDate.At(9, 0, loc),
		ExtensionEnd:  c.SessionDate.At(11, 30, loc),
		Bars:          make([]BarPoint, 0, len(bars)),
	}
	for _, b := range bars {
		g.Bars = append(g.Bars, BarPoint{
			Time:   b.Timestamp.In(loc),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return g
}
