// Command ingest fetches matches and shots from Understat into flat files.
//
// Usage:
//
//	shotmap-ingest run
//	shotmap-ingest matches --seasons 2023,2024
//	shotmap-ingest shots --season 2024
//	shotmap-ingest analyze --seasons 2023,2024
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/shotmap/internal/config"
	"github.com/albapepper/shotmap/internal/db"
	"github.com/albapepper/shotmap/internal/ingest"
	"github.com/albapepper/shotmap/internal/provider"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "shotmap-ingest",
		Short: "Fetch match and shot data into flat files",
	}

	root.AddCommand(runCmd())
	root.AddCommand(matchesCmd())
	root.AddCommand(shotsCmd())
	root.AddCommand(analyzeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	var seasons []string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch matches and shots for every season, then print the combined analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFetcher(func(ctx context.Context, cfg *config.Config, f *ingest.Fetcher) error {
				start := time.Now()
				res, err := f.Run(ctx, pick(seasons, cfg.Seasons))
				logReport(res.Report, time.Since(start))
				if err != nil {
					return err
				}
				if res.Analysis == nil {
					return nil
				}
				return ingest.PrintAnalysis(cmd.OutOrStdout(), cfg.Club, res.Analysis)
			})
		},
	}
	cmd.Flags().StringSliceVar(&seasons, "seasons", nil, "Seasons to fetch (default SHOTMAP_SEASONS)")
	return cmd
}

// --------------------------------------------------------------------------
// matches command
// --------------------------------------------------------------------------

func matchesCmd() *cobra.Command {
	var seasons []string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Fetch the club's fixtures for each season into the matches file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFetcher(func(ctx context.Context, cfg *config.Config, f *ingest.Fetcher) error {
				start := time.Now()
				matches, report, err := f.FetchMatches(ctx, pick(seasons, cfg.Seasons))
				logReport(report, time.Since(start))
				if err != nil {
					return err
				}
				logger.Info("Matches fetched", "count", len(matches))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&seasons, "seasons", nil, "Seasons to fetch (default SHOTMAP_SEASONS)")
	return cmd
}

// --------------------------------------------------------------------------
// shots command
// --------------------------------------------------------------------------

func shotsCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "shots",
		Short: "Fetch every rostered shot in the club's league matches for one season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFetcher(func(ctx context.Context, cfg *config.Config, f *ingest.Fetcher) error {
				if season == "" {
					season = cfg.CurrentSeason
				}
				start := time.Now()
				res, err := f.FetchShots(ctx, season)
				logReport(res.Report, time.Since(start))
				if err != nil {
					return err
				}
				if res.Shots == nil {
					logger.Warn("No shots written", "season", season)
					return nil
				}
				logger.Info("Shots fetched", "season", season, "count", len(res.Shots), "path", res.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season to fetch (default SHOTMAP_CURRENT_SEASON)")
	return cmd
}

// --------------------------------------------------------------------------
// analyze command
// --------------------------------------------------------------------------

func analyzeCmd() *cobra.Command {
	var seasons []string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the club's shot totals from the saved shot files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s := ingest.NewStore(cfg)

			var shots []provider.Shot
			for _, season := range pick(seasons, cfg.Seasons) {
				rows, err := s.ReadShots(season)
				if err != nil {
					return fmt.Errorf("read season %s: %w", season, err)
				}
				shots = append(shots, rows...)
			}
			return ingest.PrintAnalysis(cmd.OutOrStdout(), cfg.Club, ingest.Analyze(shots, cfg.Club))
		},
	}
	cmd.Flags().StringSliceVar(&seasons, "seasons", nil, "Seasons to analyze (default SHOTMAP_SEASONS)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, nil
}

// withFetcher handles config loading, the optional database mirror and
// context cancellation.
func withFetcher(fn func(ctx context.Context, cfg *config.Config, f *ingest.Fetcher) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var mirror ingest.Mirror
	if cfg.MirrorEnabled() {
		pool, err := db.New(ctx, cfg, logger)
		if err != nil {
			// Flat files stay the source of truth; run without the mirror.
			logger.Error("Database mirror unavailable", "error", err)
		} else {
			defer pool.Close()
			mirror = pool
		}
	}

	return fn(ctx, cfg, ingest.NewFromConfig(cfg, mirror, logger))
}

func logReport(report ingest.Report, elapsed time.Duration) {
	logger.Info("Fetch finished", "duration", elapsed.Round(time.Second), "summary", report.Summary())
	for _, e := range report.Errors() {
		logger.Error("fetch error", "error", e)
	}
}

func pick(flag, fallback []string) []string {
	if len(flag) > 0 {
		return flag
	}
	return fallback
}
