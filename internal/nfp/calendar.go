// Package nfp resolves monthly non-farm-payroll release prices and splits
// scenario statistics by whether a session's 09:00 close sat above or below
// that month's release price.
package nfp

import (
	"time"

	"overnight-range-lab/internal/domain"
)

// FirstFriday returns the first Friday of the month, the scheduled NFP
// release day.
func FirstFriday(year int, month time.Month) domain.Date {
	first := domain.NewDate(year, month, 1)
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDays(offset)
}

// SecondFriday returns the fallback release day used when the first Friday
// has no bar data.
func SecondFriday(year int, month time.Month) domain.Date {
	return FirstFriday(year, month).AddDays(7)
}
