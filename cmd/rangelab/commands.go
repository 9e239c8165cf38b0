package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"overnight-range-lab/internal/analysis"
	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/feed"
	"overnight-range-lab/internal/graphics"
	"overnight-range-lab/internal/ingestion"
	"overnight-range-lab/internal/nfp"
	"overnight-range-lab/internal/overnight"
	"overnight-range-lab/internal/reporting"
)

func newRangeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Report the overnight range (18:00-06:00 ET) per session date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.cleanup()

			start, end, err := resolveRange()
			if err != nil {
				return err
			}
			sym := a.resolveSymbol()

			results, err := overnight.NewExtractor(a.bars).Ranges(ctx, sym, start, end)
			if err != nil {
				return fmt.Errorf("computing overnight ranges: %w", err)
			}

			if asJSON {
				out, err := reporting.RenderRangesJSON(results)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			}

			fmt.Print(reporting.RenderRanges(sym, results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newScenariosCmd() *cobra.Command {
	var (
		scenarios  []int
		asJSON     bool
		asCSV      bool
		asMarkdown bool
		persist    bool
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Classify each day into one of 17 scenarios and aggregate outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.cleanup()

			start, end, err := resolveRange()
			if err != nil {
				return err
			}
			sym := a.resolveSymbol()

			for _, s := range scenarios {
				if s < 1 || s > domain.ScenarioCount {
					return fmt.Errorf("scenario %d out of range 1..%d", s, domain.ScenarioCount)
				}
			}

			opts := analysis.RunnerOptions{Bars: a.bars}
			if persist {
				opts.Classifications = a.classifications
				opts.Aggregates = a.aggregates
			}

			res, err := analysis.NewRunner(opts).Run(ctx, sym, start, end)
			if err != nil {
				return fmt.Errorf("running analysis: %w", err)
			}

			report := reporting.NewBuilder().ScenarioReport(res, scenarios)

			switch {
			case asJSON:
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
				fmt.Println(string(out))
			case asCSV:
				fmt.Print(reporting.RenderCSV(report.Rows))
			case asMarkdown:
				fmt.Print(reporting.RenderMarkdown(report))
			default:
				fmt.Printf("Symbol:          %s\n", report.Symbol)
				fmt.Printf("Range:           %s to %s\n", report.Start, report.End)
				fmt.Printf("Total days:      %d\n", report.TotalDays)
				fmt.Printf("Classified days: %d\n", report.ClassifiedDays)
				fmt.Printf("No-data days:    %d\n\n", report.NoDataDays)
				if err := reporting.WriteTable(os.Stdout, report.Rows); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&scenarios, "scenarios", nil, "restrict output to these scenarios (e.g. 3,6,17)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "output as CSV")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "output as Markdown")
	cmd.Flags().BoolVar(&persist, "persist", false, "store classifications and aggregates")
	return cmd
}

func newNFPCmd() *cobra.Command {
	var (
		regimeStr string
		today     bool
		years     float64
		asJSON    bool
		asCSV     bool
	)

	cmd := &cobra.Command{
		Use:   "nfp",
		Short: "Split scenario stats by NFP regime (close above or below release price)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.cleanup()

			sym := a.resolveSymbol()

			runner := analysis.NewRunner(analysis.RunnerOptions{Bars: a.bars})
			service := nfp.NewService(a.bars, a.releases)
			analyzer := nfp.NewAnalyzer(runner, service)

			var start, end domain.Date
			if today {
				if years <= 0 {
					return fmt.Errorf("--years is required with --today")
				}
				cur, err := service.Today(ctx, sym)
				if err != nil {
					return fmt.Errorf("resolving current regime: %w", err)
				}
				if !cur.HasRegime {
					switch {
					case !cur.HasClose09:
						fmt.Printf("could not determine regime for %s: no 06:00-09:00 bars on %s\n", sym, cur.ReferenceDate)
					case !cur.HasRelease:
						fmt.Printf("could not determine regime for %s: no release resolvable for %s\n", sym, cur.ReferenceDate)
					default:
						fmt.Printf("could not determine regime for %s: 09:00 close %.2f ties the release price\n", sym, cur.Close09)
					}
					return nil
				}
				fmt.Printf("Today (%s): 09:00 close %.2f vs NFP release %.2f -> %s\n",
					cur.ReferenceDate, cur.Close09, cur.ReleasePrice, cur.Regime)
				end = cur.ReferenceDate
				start = end.AddDays(-int(years * 365.25))
				regimeStr = string(cur.Regime)
			} else {
				start, end, err = resolveRange()
				if err != nil {
					return err
				}
			}

			if regimeStr != "" {
				regime := domain.Regime(regimeStr)
				res, err := analyzer.Filtered(ctx, sym, start, end, regime)
				if err != nil {
					return fmt.Errorf("running regime analysis: %w", err)
				}

				if asJSON {
					out, err := json.MarshalIndent(res, "", "  ")
					if err != nil {
						return fmt.Errorf("encoding result: %w", err)
					}
					fmt.Println(string(out))
					return nil
				}
				if asCSV {
					fmt.Print(reporting.RenderCSV(reporting.Rows(res.Aggregates, nil)))
					return nil
				}

				fmt.Printf("Symbol:          %s\n", res.Symbol)
				fmt.Printf("Range:           %s to %s\n", res.Start, res.End)
				fmt.Printf("Regime:          %s release price\n", res.Regime)
				fmt.Printf("Days in regime:  %d\n", res.Days)
				fmt.Printf("No-release days: %d\n\n", res.NoReleaseDays)
				return reporting.WriteTable(os.Stdout, reporting.Rows(res.Aggregates, nil))
			}

			split, err := analyzer.Split(ctx, sym, start, end)
			if err != nil {
				return fmt.Errorf("running regime split: %w", err)
			}
			report := reporting.NewBuilder().RegimeReport(split)

			if asJSON {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}
			if asCSV {
				fmt.Printf("# regime: above (%d days)\n", report.AboveDays)
				fmt.Print(reporting.RenderCSV(report.Above))
				fmt.Printf("# regime: below (%d days)\n", report.BelowDays)
				fmt.Print(reporting.RenderCSV(report.Below))
				return nil
			}

			fmt.Print(reporting.RenderRegimeMarkdown(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&regimeStr, "regime", "", "restrict to one regime: above or below")
	cmd.Flags().BoolVar(&today, "today", false, "detect the current regime from the latest bar and report its stats")
	cmd.Flags().Float64Var(&years, "years", 0, "lookback in years, used with --today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "output as CSV")
	cmd.MarkFlagsMutuallyExclusive("regime", "today")
	return cmd
}

func newGraphicsCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "graphics",
		Short: "Export per-day graphics payloads grouped by scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.cleanup()

			start, end, err := resolveRange()
			if err != nil {
				return err
			}
			sym := a.resolveSymbol()

			if outputDir == "" {
				outputDir = a.cfg.Graphics.OutputDir
			}

			runner := analysis.NewRunner(analysis.RunnerOptions{Bars: a.bars})
			gen := graphics.NewGenerator(a.bars, runner, a.log)

			written, err := gen.Generate(ctx, sym, start, end, outputDir)
			if err != nil {
				return fmt.Errorf("generating graphics: %w", err)
			}

			fmt.Printf("wrote %d graphics payloads to %s\n", written, outputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", "", "output directory (default from config)")
	return cmd
}

func newIngestCmd() *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Load bars from CSV files, or drain the live feed with --live",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !live && len(args) == 0 {
				return fmt.Errorf("give CSV files to load, or --live for the websocket feed")
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.cleanup()

			loader := ingestion.NewCSVLoader(ingestion.CSVLoaderOptions{
				Bars:   a.bars,
				Logger: a.log,
			})
			for _, path := range args {
				result, err := loader.LoadFile(ctx, path)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d bars ingested, %d rows skipped\n", path, result.BarsIngested, result.RowsSkipped)
			}

			if !live {
				return nil
			}

			if a.cfg.Feed.URL == "" {
				return fmt.Errorf("feed url is not configured")
			}

			client, err := feed.NewClient(ctx, a.cfg.Feed.URL, nil, a.log)
			if err != nil {
				return fmt.Errorf("connecting to feed: %w", err)
			}
			defer client.Close()

			runner := ingestion.NewRunner(ingestion.RunnerOptions{
				Client:        client,
				Bars:          a.bars,
				BatchSize:     a.cfg.Feed.BatchSize,
				FlushInterval: a.cfg.Feed.FlushInterval,
				Logger:        a.log,
			})

			// Run until interrupted; the runner flushes on the way out.
			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runner.Run(runCtx, a.resolveSymbol()); err != nil && runCtx.Err() == nil {
				return fmt.Errorf("live ingestion: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "drain the live websocket feed after loading files")
	return cmd
}
