package graphics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"overnight-range-lab/internal/analysis"
	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/session"
	"overnight-range-lab/internal/storage"
)

// Generator walks classified days and writes one JSON payload per day into
// <baseDir>/scenario_<N>/<date>_scenario_<N>.json.
type Generator struct {
	bars   storage.BarStore
	runner *analysis.Runner
	log    zerolog.Logger
}

// NewGenerator creates a payload generator.
func NewGenerator(bars storage.BarStore, runner *analysis.Runner, log zerolog.Logger) *Generator {
	return &Generator{bars: bars, runner: runner, log: log}
}

// Generate analyzes the range and writes payloads under baseDir. Existing
// scenario folders are cleared first so the output mirrors exactly the
// requested range. Returns the number of payloads written.
func (g *Generator) Generate(ctx context.Context, symbol string, start, end domain.Date, baseDir string) (int, error) {
	if err := clearScenarioDirs(baseDir); err != nil {
		return 0, err
	}

	result, err := g.runner.Run(ctx, symbol, start, end)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, day := range result.Days {
		c := day.Classification

		// One query covers the classification and extension windows.
		bars, err := g.bars.GetByTimeRange(ctx, symbol,
			c.SessionDate.At(6, 0, session.ET),
			c.SessionDate.At(11, 30, session.ET))
		if err != nil {
			return written, fmt.Errorf("load bars %s %s: %w", symbol, c.SessionDate, err)
		}
		if len(bars) == 0 {
			continue
		}

		if err := g.write(baseDir, newDayGraphic(c, bars, session.ET)); err != nil {
			return written, err
		}
		written++

		if written%100 == 0 {
			g.log.Info().Int("written", written).Msg("generating graphics")
		}
	}

	g.log.Info().
		Str("symbol", symbol).
		Str("start", start.String()).
		Str("end", end.String()).
		Int("written", written).
		Msg("graphics generated")
	return written, nil
}

func (g *Generator) write(baseDir string, payload *DayGraphic) error {
	dir := filepath.Join(baseDir, fmt.Sprintf("scenario_%d", payload.Scenario))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graphic %s: %w", payload.SessionDate, err)
	}

	name := fmt.Sprintf("%s_scenario_%d.json", payload.SessionDate, payload.Scenario)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write graphic %s: %w", path, err)
	}
	return nil
}

// clearScenarioDirs removes previous payloads from the 17 scenario folders
// without touching anything else under baseDir.
func clearScenarioDirs(baseDir string) error {
	for s := 1; s <= domain.ScenarioCount; s++ {
		dir := filepath.Join(baseDir, fmt.Sprintf("scenario_%d", s))
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
	}
	return nil
}
