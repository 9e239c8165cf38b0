package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"overnight-range-lab/internal/analysis"
	"overnight-range-lab/internal/config"
	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
	chstore "overnight-range-lab/internal/storage/clickhouse"
	"overnight-range-lab/internal/storage/memory"
	"overnight-range-lab/internal/storage/migrations"
	pgstore "overnight-range-lab/internal/storage/postgres"
)

var (
	cfgFile     string
	symbol      string
	startStr    string
	endStr      string
	useFixtures bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rangelab",
		Short: "Overnight range scenario analysis for futures sessions",
		Long: `Rangelab classifies each trading day's overnight (18:00-06:00 ET) and
morning (06:00-09:00 ET) price action into one of 17 scenarios and
aggregates what happened during the regular session that followed.

Examples:
  rangelab scenarios --symbol ES --start 2024-01-02 --end 2024-06-28
  rangelab scenarios --fixtures
  rangelab nfp --symbol ES --start 2024-01-02 --end 2024-06-28 --regime above
  rangelab ingest bars_2024.csv`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&symbol, "symbol", "", "instrument symbol (default from config)")
	rootCmd.PersistentFlags().StringVar(&startStr, "start", "", "first session date, YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&endStr, "end", "", "last session date, YYYY-MM-DD")
	rootCmd.PersistentFlags().BoolVar(&useFixtures, "fixtures", false, "use in-memory fixture data instead of databases")

	rootCmd.AddCommand(
		newRangeCmd(),
		newScenariosCmd(),
		newNFPCmd(),
		newGraphicsCmd(),
		newIngestCmd(),
		newMigrateCmd(),
		newSymbolsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the configuration and stores a command runs against.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	bars            storage.BarStore
	classifications storage.ClassificationStore
	aggregates      storage.ScenarioAggregateStore
	releases        storage.NFPReleaseStore

	cleanup func()
}

// openApp loads config and connects the stores. With --fixtures everything
// is in-memory and the fixture week is preloaded.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
		cleanup: func() {},
	}

	if useFixtures {
		a.bars = memory.NewBarStore()
		a.classifications = memory.NewClassificationStore()
		a.aggregates = memory.NewScenarioAggregateStore()
		a.releases = memory.NewNFPReleaseStore()

		if err := analysis.LoadFixtures(ctx, a.bars); err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
		return a, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	conn, err := chstore.NewConn(ctx, cfg.Clickhouse.DSN)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to clickhouse: %w", err)
	}

	a.bars = chstore.NewBarStore(conn)
	a.classifications = pgstore.NewClassificationStore(pool)
	a.aggregates = pgstore.NewScenarioAggregateStore(pool)
	a.releases = pgstore.NewNFPReleaseStore(pool)
	a.cleanup = func() {
		conn.Close()
		pool.Close()
	}

	return a, nil
}

// resolveSymbol picks the --symbol flag over the config default. With
// --fixtures and no explicit symbol, the fixture instrument is used.
func (a *app) resolveSymbol() string {
	if symbol != "" {
		return symbol
	}
	if useFixtures {
		return analysis.FixtureSymbol
	}
	return a.cfg.Analysis.Symbol
}

// resolveRange parses --start/--end. With --fixtures both default to the
// fixture week; otherwise they are required.
func resolveRange() (domain.Date, domain.Date, error) {
	if startStr == "" && endStr == "" && useFixtures {
		return analysis.FixtureStart, analysis.FixtureEnd, nil
	}
	if startStr == "" || endStr == "" {
		return domain.Date{}, domain.Date{}, fmt.Errorf("--start and --end are required (or use --fixtures)")
	}

	start, err := domain.ParseDate(startStr)
	if err != nil {
		return domain.Date{}, domain.Date{}, fmt.Errorf("parsing --start: %w", err)
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		return domain.Date{}, domain.Date{}, fmt.Errorf("parsing --end: %w", err)
	}
	if end.Before(start) {
		return domain.Date{}, domain.Date{}, fmt.Errorf("--end is before --start")
	}
	return start, end, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to PostgreSQL and ClickHouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}
			defer pool.Close()

			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				return fmt.Errorf("postgres migrations: %w", err)
			}
			fmt.Println("postgres migrations applied")

			conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Clickhouse.DSN)
			if err != nil {
				return fmt.Errorf("clickhouse migrations: %w", err)
			}
			conn.Close()
			fmt.Println("clickhouse migrations applied")

			return nil
		},
	}
}

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List symbols present in the bar store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.cleanup()

			symbols, err := a.bars.Symbols(ctx)
			if err != nil {
				return fmt.Errorf("listing symbols: %w", err)
			}
			if len(symbols) == 0 {
				fmt.Println("no symbols ingested")
				return nil
			}
			for _, s := range symbols {
				fmt.Println(s)
			}
			return nil
		},
	}
}
