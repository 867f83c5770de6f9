// Package dashboard holds the state and pure computations behind the shot
// map dashboard: loading the current-season shot file, filtering by team
// and player, and the aggregate metrics and table rows shown beside the
// pitch.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/shotmap/internal/ingest"
	"github.com/albapepper/shotmap/internal/provider"
	"github.com/albapepper/shotmap/internal/store"
)

// ErrNoData means the shot file is still missing after a fetch.
var ErrNoData = errors.New("no shot data available")

// Refresher runs the full fetch pipeline.
type Refresher interface {
	Run(ctx context.Context, seasons []string) (*ingest.RunResult, error)
}

// Session owns the dashboard's data cache and serializes fetch runs.
type Session struct {
	store     *store.Store
	refresher Refresher
	seasons   []string
	season    string
	cache     *DataCache
	fetchMu   sync.Mutex
	onRefresh []func()
	logger    *slog.Logger
}

// NewSession creates a session that displays season's shot file and
// fetches seasons when the file is missing or a refresh is requested.
func NewSession(s *store.Store, r Refresher, seasons []string, season string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	sess := &Session{
		store:     s,
		refresher: r,
		seasons:   seasons,
		season:    season,
		logger:    logger,
	}
	sess.cache = NewDataCache(sess.load)
	return sess
}

// Season is the season the dashboard displays.
func (s *Session) Season() string { return s.season }

// Cache exposes the session's data cache.
func (s *Session) Cache() *DataCache { return s.cache }

// OnRefresh registers fn to run after every refresh or reload, once the
// data cache has been invalidated. Register hooks before serving.
func (s *Session) OnRefresh(fn func()) {
	s.onRefresh = append(s.onRefresh, fn)
}

// Load returns the current-season shots, fetching them first when the
// file does not exist yet.
func (s *Session) Load(ctx context.Context) ([]provider.Shot, error) {
	return s.cache.Get(ctx)
}

// Refresh re-runs the fetch pipeline and invalidates the data cache once.
// The cache is invalidated even when the run fails, since files written
// before the failure may already have changed.
func (s *Session) Refresh(ctx context.Context) (*ingest.RunResult, error) {
	res, err := s.fetch(ctx)
	s.Reload()
	if err != nil {
		return res, fmt.Errorf("refresh: %w", err)
	}
	return res, nil
}

// Reload drops the memoized data without fetching, for files rewritten by
// another process. The next Load reads them again.
func (s *Session) Reload() {
	s.cache.Invalidate()
	for _, fn := range s.onRefresh {
		fn()
	}
}

// LastUpdated is the modification time of the displayed shot file.
func (s *Session) LastUpdated() (time.Time, bool) {
	return s.store.ShotsUpdatedAt(s.season)
}

func (s *Session) load(ctx context.Context) ([]provider.Shot, error) {
	if !s.store.ShotsExist(s.season) {
		s.logger.Info("Shot file missing, running initial fetch", "season", s.season)
		if _, err := s.fetch(ctx); err != nil {
			return nil, fmt.Errorf("initial fetch: %w", err)
		}
	}

	shots, err := s.store.ReadShots(s.season)
	if err != nil {
		if store.IsNotExist(err) {
			return nil, fmt.Errorf("%w for season %s", ErrNoData, s.season)
		}
		return nil, err
	}
	s.logger.Info("Loaded shots", "season", s.season, "count", len(shots))
	return shots, nil
}

// fetch serializes pipeline runs; a second caller waits for the first.
// A run is detached from ctx cancellation, so a client that disconnects
// mid-refresh does not cut the run short.
func (s *Session) fetch(ctx context.Context) (*ingest.RunResult, error) {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	start := time.Now()
	res, err := s.refresher.Run(context.WithoutCancel(ctx), s.seasons)
	if err != nil {
		s.logger.Error("Fetch failed", "error", err)
		return res, err
	}
	s.logger.Info("Fetch complete", "elapsed", time.Since(start).Round(time.Millisecond), "summary", res.Report.Summary())
	return res, nil
}
