package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albapepper/shotmap/internal/provider"
	"github.com/albapepper/shotmap/internal/roster"
	"github.com/albapepper/shotmap/internal/store"
)

// Provider is the subset of the stats provider the fetcher needs.
type Provider interface {
	TeamMatches(ctx context.Context, team, season string) ([]provider.Match, error)
	LeagueMatches(ctx context.Context, league, season string) ([]provider.Match, error)
	MatchShots(ctx context.Context, matchID string) (provider.MatchShots, error)
}

// Mirror receives a copy of every file the fetcher writes. Mirror failures
// are reported but never fail a fetch.
type Mirror interface {
	SaveMatches(ctx context.Context, matches []provider.Match) (int, error)
	SaveShots(ctx context.Context, season string, shots []provider.Shot) (int, error)
}

// Options configures a Fetcher.
type Options struct {
	Club   string
	League string
	Roster *roster.Roster
	Mirror Mirror // optional
}

// Fetcher pulls matches and shots from a Provider into a Store.
type Fetcher struct {
	provider Provider
	store    *store.Store
	club     string
	league   string
	roster   *roster.Roster
	mirror   Mirror
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. A nil roster means the default club roster.
func NewFetcher(p Provider, s *store.Store, opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	r := opts.Roster
	if r == nil {
		r = roster.Default()
	}
	return &Fetcher{
		provider: p,
		store:    s,
		club:     opts.Club,
		league:   opts.League,
		roster:   r,
		mirror:   opts.Mirror,
		logger:   logger,
	}
}

// Club returns the club the fetcher collects data for.
func (f *Fetcher) Club() string { return f.club }

// FetchMatches collects the club's fixtures for every season and writes
// them to the matches file, replacing any previous file even when no
// season succeeded. A season that fails is logged, recorded and left out.
// The returned error is non-nil when ctx ends, in which case nothing is
// written, or when the file cannot be written.
func (f *Fetcher) FetchMatches(ctx context.Context, seasons []string) ([]provider.Match, Report, error) {
	var report Report
	var all []provider.Match

	for _, season := range seasons {
		unit := "matches " + season
		matches, err := f.provider.TeamMatches(ctx, f.club, season)
		if ctx.Err() != nil {
			report.Fail(unit, ctx.Err())
			return nil, report, fmt.Errorf("fetch matches %s: %w", season, ctx.Err())
		}
		if err != nil {
			f.logger.Error("Error fetching matches", "season", season, "error", err)
			report.Fail(unit, err)
			continue
		}
		f.logger.Info("Successfully fetched matches", "season", season, "count", len(matches))
		report.Succeed(unit, len(matches))
		all = append(all, matches...)
	}

	if len(all) == 0 {
		f.logger.Warn("No matches fetched, writing empty matches file", "seasons", seasons)
	}

	if err := f.store.WriteMatches(all); err != nil {
		return nil, report, fmt.Errorf("write matches: %w", err)
	}
	f.logger.Info("Saved matches", "count", len(all), "path", f.store.MatchesPath())

	if len(all) == 0 {
		return nil, report, nil
	}
	f.mirrorMatches(ctx, all, &report)
	return all, report, nil
}

// ShotsResult is the outcome of FetchShots. Shots is nil when nothing was
// collected, in which case no file was written. Matches is nil when the
// league fixture list could not be fetched.
type ShotsResult struct {
	Shots   []provider.Shot
	Matches []provider.Match
	Path    string
	Report  Report
}

// FetchShots collects every shot taken by a rostered player in the club's
// league matches for a season and writes them to the season's shots file,
// replacing any previous file. Invalid matches are skipped, other match
// failures are recorded and skipped. If ctx ends before every match was
// read, nothing is written and the context error is returned; the
// season's previous file stays as it was. The returned error is otherwise
// non-nil only when the file cannot be written.
func (f *Fetcher) FetchShots(ctx context.Context, season string) (ShotsResult, error) {
	var res ShotsResult

	f.logger.Info("Fetching shots", "club", f.club, "league", f.league, "season", season)

	league, err := f.provider.LeagueMatches(ctx, f.league, season)
	if ctx.Err() != nil {
		res.Report.Fail("league "+season, ctx.Err())
		return res, fmt.Errorf("fetch shots %s: %w", season, ctx.Err())
	}
	if err != nil {
		f.logger.Error("Error fetching league matches", "season", season, "error", err)
		res.Report.Fail("league "+season, err)
		return res, nil
	}

	var clubMatches []provider.Match
	for _, m := range league {
		if m.HasTeam(f.club) {
			clubMatches = append(clubMatches, m)
		}
	}
	res.Matches = clubMatches
	f.logger.Info("Found club matches", "season", season, "count", len(clubMatches))

	var shots []provider.Shot
	for i, m := range clubMatches {
		unit := "match " + m.ID
		ms, err := f.provider.MatchShots(ctx, m.ID)
		if ctx.Err() != nil {
			res.Report.Fail(unit, ctx.Err())
			return res, fmt.Errorf("fetch shots %s: %w", season, ctx.Err())
		}
		if err != nil {
			if errors.Is(err, provider.ErrInvalidMatch) {
				f.logger.Warn("Skipping invalid match", "match_id", m.ID, "error", err)
				res.Report.Skip(unit, err)
			} else {
				f.logger.Error("Error processing match", "match_id", m.ID, "error", err)
				res.Report.Fail(unit, err)
			}
			continue
		}

		kept := 0
		for _, s := range ms.All() {
			if !f.roster.Contains(s.Player) {
				continue
			}
			shots = append(shots, s.WithContext(m))
			kept++
		}
		res.Report.Succeed(unit, kept)

		if (i+1)%10 == 0 {
			f.logger.Info("Match progress", "season", season, "done", i+1, "total", len(clubMatches))
		}
	}

	if len(shots) == 0 {
		f.logger.Warn("No shots collected", "season", season)
		return res, nil
	}

	path, err := f.store.WriteShots(season, shots)
	if err != nil {
		return res, fmt.Errorf("write shots for %s: %w", season, err)
	}
	res.Shots = shots
	res.Path = path
	f.logger.Info("Saved shots", "season", season, "count", len(shots), "path", path)

	f.mirrorShots(ctx, season, shots, &res.Report)
	return res, nil
}

func (f *Fetcher) mirrorMatches(ctx context.Context, matches []provider.Match, report *Report) {
	if f.mirror == nil {
		return
	}
	n, err := f.mirror.SaveMatches(ctx, matches)
	if err != nil {
		f.logger.Error("Mirror matches failed", "error", err)
		report.Fail("mirror matches", err)
		return
	}
	report.Succeed("mirror matches", n)
}

func (f *Fetcher) mirrorShots(ctx context.Context, season string, shots []provider.Shot, report *Report) {
	if f.mirror == nil {
		return
	}
	n, err := f.mirror.SaveShots(ctx, season, shots)
	if err != nil {
		f.logger.Error("Mirror shots failed", "season", season, "error", err)
		report.Fail("mirror shots "+season, err)
		return
	}
	report.Succeed("mirror shots "+season, n)
}
