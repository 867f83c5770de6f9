package ingest

import (
	"log/slog"

	"github.com/albapepper/shotmap/internal/config"
	"github.com/albapepper/shotmap/internal/provider/understat"
	"github.com/albapepper/shotmap/internal/roster"
	"github.com/albapepper/shotmap/internal/store"
)

// NewStore builds the flat-file store described by cfg.
func NewStore(cfg *config.Config) *store.Store {
	return store.New(cfg.DataDir, cfg.MatchesFile, cfg.ShotsPattern)
}

// NewFromConfig builds a Fetcher backed by Understat. mirror may be nil.
func NewFromConfig(cfg *config.Config, mirror Mirror, logger *slog.Logger) *Fetcher {
	handler := understat.NewHandler(cfg.UnderstatBaseURL, cfg.UnderstatRequestsPerM, cfg.UnderstatTimeout, logger)
	return NewFetcher(handler, NewStore(cfg), Options{
		Club:   cfg.Club,
		League: cfg.League,
		Roster: roster.Default(),
		Mirror: mirror,
	}, logger)
}
