package ingest

import (
	"context"
	"fmt"

	"github.com/albapepper/shotmap/internal/provider"
)

// RunResult is the outcome of a full pipeline run.
type RunResult struct {
	Matches []provider.Match
	Shots   map[string][]provider.Shot // season -> shots, only seasons that yielded shots
	Report  Report

	// Analysis covers every season combined. Nil unless all seasons
	// yielded shots.
	Analysis []AnalyzedShot
	Summary  *ClubSummary
}

// Run fetches matches for all seasons and shots for each season in turn,
// then analyzes the combined shots when every season produced some.
func (f *Fetcher) Run(ctx context.Context, seasons []string) (*RunResult, error) {
	res := &RunResult{Shots: make(map[string][]provider.Shot)}

	f.logger.Info("Fetching matches", "club", f.club, "seasons", seasons)
	matches, report, err := f.FetchMatches(ctx, seasons)
	res.Report.Add(report)
	if err != nil {
		return res, err
	}
	res.Matches = matches

	for _, season := range seasons {
		sr, err := f.FetchShots(ctx, season)
		res.Report.Add(sr.Report)
		if err != nil {
			return res, fmt.Errorf("season %s: %w", season, err)
		}
		if sr.Shots != nil {
			res.Shots[season] = sr.Shots
		}
	}

	if len(res.Shots) != len(seasons) || len(seasons) == 0 {
		f.logger.Warn("Skipping combined analysis, not every season has shots",
			"seasons", len(seasons), "with_shots", len(res.Shots))
		f.logger.Info("Run complete", "summary", res.Report.Summary())
		return res, nil
	}

	var combined []provider.Shot
	for _, season := range seasons {
		combined = append(combined, res.Shots[season]...)
	}
	res.Analysis = Analyze(combined, f.club)
	sum := SummarizeClub(res.Analysis)
	res.Summary = &sum

	f.logger.Info("Run complete",
		"club_shots", sum.Shots, "goals", sum.Goals,
		"avg_xg", fmt.Sprintf("%.3f", sum.AverageXG), "summary", res.Report.Summary())
	return res, nil
}
