package overnight

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/session"
	"overnight-range-lab/internal/storage/memory"
)

func seedBar(symbol string, ts time.Time, high, low float64) *domain.MinuteBar {
	return &domain.MinuteBar{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      (high + low) / 2,
		High:      high,
		Low:       low,
		Close:     (high + low) / 2,
		Volume:    25,
	}
}

func TestComputeRange(t *testing.T) {
	base := time.Date(2024, time.June, 12, 1, 0, 0, 0, time.UTC)
	bars := []*domain.MinuteBar{
		seedBar("NQ", base, 118, 104),
		seedBar("NQ", base.Add(time.Minute), 120, 111),
		seedBar("NQ", base.Add(2*time.Minute), 117, 100),
	}

	rng := ComputeRange(bars)
	require.NotNil(t, rng)
	require.Equal(t, 120.0, rng.High)
	require.Equal(t, 100.0, rng.Low)
	require.Equal(t, 110.0, rng.Mid)
}

func TestComputeRange_Empty(t *testing.T) {
	require.Nil(t, ComputeRange(nil))
}

func TestExtractor_WindowIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBarStore()
	date := domain.NewDate(2024, time.June, 12)

	start, end, err := session.Bounds(session.WindowClassification, date)
	require.NoError(t, err)

	require.NoError(t, store.InsertBulk(ctx, []*domain.MinuteBar{
		seedBar("NQ", start.Add(-time.Minute), 111, 109), // 05:59, outside
		seedBar("NQ", start, 112, 110),                   // 06:00, first bar
		seedBar("NQ", end.Add(-time.Minute), 113, 111),   // 08:59, last bar
		seedBar("NQ", end, 114, 112),                     // 09:00, outside
	}))

	bars, err := NewExtractor(store).Window(ctx, "NQ", date, session.WindowClassification)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.True(t, bars[0].Timestamp.Equal(start.UTC()))
}

func TestExtractor_OvernightSpansPreviousDay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBarStore()
	date := domain.NewDate(2024, time.June, 12)

	// 20:30 ET on the 11th and 05:30 ET on the 12th are both overnight.
	evening := domain.NewDate(2024, time.June, 11).At(20, 30, session.ET)
	morning := date.At(5, 30, session.ET)
	require.NoError(t, store.InsertBulk(ctx, []*domain.MinuteBar{
		seedBar("NQ", evening, 119, 103),
		seedBar("NQ", morning, 121, 101),
	}))

	res, err := NewExtractor(store).Range(ctx, "NQ", date)
	require.NoError(t, err)
	require.Equal(t, 2, res.BarCount)
	require.NotNil(t, res.Range)
	require.Equal(t, 121.0, res.Range.High)
	require.Equal(t, 101.0, res.Range.Low)
	require.Equal(t, 111.0, res.Range.Mid)
}

func TestExtractor_RangeNoData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBarStore()

	res, err := NewExtractor(store).Range(ctx, "NQ", domain.NewDate(2024, time.June, 12))
	require.NoError(t, err)
	require.Nil(t, res.Range)
	require.Equal(t, 0, res.BarCount)
}

func TestExtractor_Ranges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBarStore()
	start := domain.NewDate(2024, time.June, 12)
	end := domain.NewDate(2024, time.June, 14)

	// Seed only the middle date's overnight window.
	mid := domain.NewDate(2024, time.June, 13)
	require.NoError(t, store.InsertBulk(ctx, []*domain.MinuteBar{
		seedBar("NQ", mid.At(2, 0, session.ET), 116, 102),
	}))

	results, err := NewExtractor(store).Ranges(ctx, "NQ", start, end)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Nil(t, results[0].Range)
	require.NotNil(t, results[1].Range)
	require.Nil(t, results[2].Range)
	require.Equal(t, mid, results[1].SessionDate)
}
