// Package ingestion loads 1-minute bars into the bar store, from CSV
// backfill files and from the live websocket feed.
package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// CSVLoader ingests bar history from CSV files with the columns
// timestamp,symbol,open,high,low,close,volume. Timestamps are RFC3339 or
// unix seconds.
type CSVLoader struct {
	bars      storage.BarStore
	batchSize int
	log       zerolog.Logger
}

// CSVLoaderOptions contains configuration for creating a CSVLoader.
type CSVLoaderOptions struct {
	Bars      storage.BarStore
	BatchSize int // default 1000
	Logger    zerolog.Logger
}

// NewCSVLoader creates a new CSV backfill loader.
func NewCSVLoader(opts CSVLoaderOptions) *CSVLoader {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = 1000
	}

	return &CSVLoader{
		bars:      opts.Bars,
		batchSize: batchSize,
		log:       opts.Logger,
	}
}

// LoadResult contains statistics from one load operation.
type LoadResult struct {
	BarsIngested int
	RowsSkipped  int
	Duration     time.Duration
}

// LoadFile ingests one CSV file.
func (l *CSVLoader) LoadFile(ctx context.Context, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	result, err := l.Load(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return result, nil
}

// Load ingests CSV content from a reader. A header row is detected and
// skipped; malformed rows are skipped and counted, not fatal.
func (l *CSVLoader) Load(ctx context.Context, r io.Reader) (*LoadResult, error) {
	start := time.Now()
	result := &LoadResult{}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	batch := make([]*domain.MinuteBar, 0, l.batchSize)
	first := true

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		bar, err := parseRow(record)
		if err != nil {
			if first {
				// Header row
				first = false
				continue
			}
			result.RowsSkipped++
			l.log.Debug().Err(err).Msg("skipping malformed csv row")
			continue
		}
		first = false

		batch = append(batch, bar)
		if len(batch) >= l.batchSize {
			if err := l.bars.InsertBulk(ctx, batch); err != nil {
				return nil, fmt.Errorf("insert bar batch: %w", err)
			}
			result.BarsIngested += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := l.bars.InsertBulk(ctx, batch); err != nil {
			return nil, fmt.Errorf("insert bar batch: %w", err)
		}
		result.BarsIngested += len(batch)
	}

	result.Duration = time.Since(start)
	l.log.Info().
		Int("bars", result.BarsIngested).
		Int("skipped", result.RowsSkipped).
		Dur("duration", result.Duration).
		Msg("csv backfill complete")

	return result, nil
}

func parseRow(record []string) (*domain.MinuteBar, error) {
	if len(record) != 7 {
		return nil, fmt.Errorf("expected 7 fields, got %d", len(record))
	}

	ts, err := parseTimestamp(record[0])
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", record[0], err)
	}

	symbol := record[1]
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	var prices [4]float64
	for i, field := range record[2:6] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", field, err)
		}
		prices[i] = v
	}

	volume, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume %q: %w", record[6], err)
	}

	return &domain.MinuteBar{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    volume,
	}, nil
}

func parseTimestamp(field string) (time.Time, error) {
	if secs, err := strconv.ParseInt(field, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, field)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
