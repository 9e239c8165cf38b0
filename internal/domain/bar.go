package domain

import "time"

// MinuteBar is one 1-minute OHLCV bar for a symbol.
// Timestamps are absolute instants (stored in UTC); no two bars of the
// same symbol share a timestamp.
type MinuteBar struct {
	Symbol    string
	Timestamp time.Time // bar open time, UTC
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}
