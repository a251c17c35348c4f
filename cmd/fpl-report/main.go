// Command fpl-report builds the season report for an FPL classic mini-league.
//
// Usage:
//
//	fpl-report generate
//	fpl-report generate --league 542663 --out WWHALigaData.xlsx --last-gw 38
//	fpl-report picks --league 542663 --all-gameweeks
//	fpl-report serve

// @title FPL League Report API
// @version 1.0.0
// @description Season report for a Fantasy Premier League classic mini-league: transfers, chip usage and captaincy, as an xlsx workbook or JSON.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name FPL League Report
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/fpl-league-report/internal/aggregate"
	"github.com/albapepper/fpl-league-report/internal/api"
	"github.com/albapepper/fpl-league-report/internal/cache"
	"github.com/albapepper/fpl-league-report/internal/config"
	"github.com/albapepper/fpl-league-report/internal/pipeline"
	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
	"github.com/albapepper/fpl-league-report/internal/report"
	"github.com/albapepper/fpl-league-report/internal/scheduler"

	_ "github.com/albapepper/fpl-league-report/docs" // swagger docs
)

var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(newLogHandler(os.Stdout, false))
)

// newLogHandler logs text for humans, or JSON in production where the output
// is collected.
func newLogHandler(w io.Writer, production bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: logLevel}
	if production {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// useConfiguredLogger switches the process logger to the format cfg asks for.
func useConfiguredLogger(cfg *config.Config) {
	logger = slog.New(newLogHandler(os.Stdout, cfg.IsProduction()))
	slog.SetDefault(logger)
}

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")
	slog.SetDefault(logger)

	var debug bool
	root := &cobra.Command{
		Use:           "fpl-report",
		Short:         "FPL mini-league season report",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logLevel.Set(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Log every upstream request")

	root.AddCommand(generateCmd())
	root.AddCommand(picksCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// generate command
// --------------------------------------------------------------------------

func generateCmd() *cobra.Command {
	var leagueID, lastGW int
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the xlsx report (Transfers, Chip Usage, Captaincy)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(func(cfg *config.Config) {
				if cmd.Flags().Changed("league") {
					cfg.LeagueID = leagueID
				}
				if cmd.Flags().Changed("last-gw") {
					cfg.LastGameweek = lastGW
				}
				if cmd.Flags().Changed("out") {
					cfg.ReportFile = out
				}
			}, func(ctx context.Context, cfg *config.Config, gen *pipeline.Generator) error {
				logger.Info("Generating report", "league_id", cfg.LeagueID, "out", cfg.ReportFile)
				start := time.Now()
				result, err := gen.WriteFile(ctx, cfg.LeagueID, cfg.ReportFile)
				if err != nil {
					return err
				}
				logger.Info("Report finished",
					"path", cfg.ReportFile,
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				logErrors(result)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&leagueID, "league", config.DefaultLeagueID, "Classic league id")
	cmd.Flags().IntVar(&lastGW, "last-gw", config.DefaultLastGameweek, "Last gameweek scanned for captaincy")
	cmd.Flags().StringVar(&out, "out", "WWHALigaData.xlsx", "Output workbook path")
	return cmd
}

// --------------------------------------------------------------------------
// picks command
// --------------------------------------------------------------------------

func picksCmd() *cobra.Command {
	var leagueID int
	var out string
	var allGameweeks bool
	cmd := &cobra.Command{
		Use:   "picks",
		Short: "Export every entry's squad per gameweek as a wide CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(func(cfg *config.Config) {
				if cmd.Flags().Changed("league") {
					cfg.LeagueID = leagueID
				}
				if cmd.Flags().Changed("out") {
					cfg.PicksFile = out
				}
				if cmd.Flags().Changed("all-gameweeks") {
					cfg.PicksFinalisedOnly = !allGameweeks
				}
			}, func(ctx context.Context, cfg *config.Config, gen *pipeline.Generator) error {
				table, result, err := gen.Picks(ctx, cfg.LeagueID, cfg.PicksFinalisedOnly)
				if err != nil {
					return err
				}
				if len(table.Gameweeks) == 0 {
					logger.Warn("No gameweeks to export; nothing written",
						"league_id", cfg.LeagueID, "finalised_only", cfg.PicksFinalisedOnly)
					return nil
				}

				path := cfg.PicksPath(cfg.LeagueID)
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				if err := report.WritePicksCSV(f, table); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close %s: %w", path, err)
				}

				logger.Info("Picks exported",
					"path", path,
					"rows", len(table.Rows),
					"gameweeks", len(table.Gameweeks),
					"summary", result.Summary())
				logErrors(result)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&leagueID, "league", config.DefaultLeagueID, "Classic league id")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV path (default fpl_league_<id>_picks_wide.csv)")
	cmd.Flags().BoolVar(&allGameweeks, "all-gameweeks", false, "Include gameweeks whose data is not yet checked")
	return cmd
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	var warm bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP with an in-memory cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			useConfiguredLogger(cfg)

			appCache := cache.New(cfg.CacheEnabled, cfg.CacheTTL)
			logger.Info("Cache initialized", "enabled", appCache.Enabled(), "ttl", appCache.TTL())

			gen := newGenerator(cfg, appCache)

			sched := scheduler.New(ctx, gen, appCache, cfg.LeagueID, logger)
			if err := sched.RegisterAll(cfg.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
			if warm {
				go sched.RunRefreshNow()
			}

			router := api.NewRouter(gen, appCache, cfg, logger)

			// WriteTimeout covers a cold build, which fetches every entry and gameweek.
			addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
			srv := &http.Server{
				Addr:         addr,
				Handler:      router,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Minute,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting FPL League Report API",
					"addr", addr,
					"environment", cfg.Environment,
					"league_id", cfg.LeagueID,
					"refresh_cron", cfg.RefreshCron,
					"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
			case <-ctx.Done():
			}
			logger.Info("Shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", "error", err)
			}
			logger.Info("Server stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&warm, "warm", false, "Build the default league's report at startup")
	return cmd
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

// runReport loads config, applies flag overrides, and hands a generator to
// fn under a context cancelled on interrupt.
func runReport(apply func(cfg *config.Config), fn func(ctx context.Context, cfg *config.Config, gen *pipeline.Generator) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	useConfiguredLogger(cfg)
	apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return fn(ctx, cfg, newGenerator(cfg, nil))
}

func newGenerator(cfg *config.Config, c *cache.Cache) *pipeline.Generator {
	client := fpl.NewClient(cfg.BaseURL, cfg.UserAgent, cfg.RequestsPerMinute, cfg.HTTPTimeout, logger)
	opts := aggregate.Options{
		WildcardSplitGW: cfg.WildcardSplitGW,
		LastGameweek:    cfg.LastGameweek,
	}
	return pipeline.New(client, opts, c, logger)
}

func logErrors(result aggregate.Result) {
	for _, e := range result.Errors {
		logger.Warn("Skipped data", "error", e)
	}
}
