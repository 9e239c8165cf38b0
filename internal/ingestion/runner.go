package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/feed"
	"overnight-range-lab/internal/storage"
)

// Runner drains the live bar feed into the bar store. Bars are buffered
// and written in batches; a periodic ticker flushes partial batches so a
// quiet feed still lands promptly.
type Runner struct {
	client        *feed.Client
	bars          storage.BarStore
	batchSize     int
	flushInterval time.Duration
	log           zerolog.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Client        *feed.Client
	Bars          storage.BarStore
	BatchSize     int           // default 100
	FlushInterval time.Duration // default 5s
	Logger        zerolog.Logger
}

// NewRunner creates a new live ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = 100
	}

	flushInterval := opts.FlushInterval
	if flushInterval == 0 {
		flushInterval = 5 * time.Second
	}

	return &Runner{
		client:        opts.Client,
		bars:          opts.Bars,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		log:           opts.Logger,
	}
}

// Run subscribes to the given symbols and ingests until the context is
// cancelled or the feed channel closes. The remaining buffer is flushed
// on the way out.
func (r *Runner) Run(ctx context.Context, symbols ...string) error {
	barsCh, err := r.client.Subscribe(ctx, symbols...)
	if err != nil {
		return fmt.Errorf("subscribe to feed: %w", err)
	}

	r.log.Info().
		Strs("symbols", symbols).
		Int("batch_size", r.batchSize).
		Dur("flush_interval", r.flushInterval).
		Msg("live ingestion started")

	flushTicker := time.NewTicker(r.flushInterval)
	defer flushTicker.Stop()

	buffer := make([]*domain.MinuteBar, 0, r.batchSize)
	total := 0

	flush := func(flushCtx context.Context) error {
		if len(buffer) == 0 {
			return nil
		}
		if err := r.bars.InsertBulk(flushCtx, buffer); err != nil {
			return fmt.Errorf("insert bar batch: %w", err)
		}
		total += len(buffer)
		r.log.Debug().Int("bars", len(buffer)).Int("total", total).Msg("flushed bar batch")
		buffer = buffer[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			// Final flush must not use the cancelled context.
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := flush(flushCtx)
			cancel()
			if err != nil {
				return err
			}
			r.log.Info().Int("total", total).Msg("live ingestion stopped")
			return ctx.Err()

		case bar, ok := <-barsCh:
			if !ok {
				if err := flush(ctx); err != nil {
					return err
				}
				r.log.Info().Int("total", total).Msg("feed closed, live ingestion stopped")
				return nil
			}
			buffer = append(buffer, bar)
			if len(buffer) >= r.batchSize {
				if err := flush(ctx); err != nil {
					return err
				}
			}

		case <-flushTicker.C:
			if err := flush(ctx); err != nil {
				return err
			}
		}
	}
}
