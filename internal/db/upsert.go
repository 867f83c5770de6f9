package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/shotmap/internal/config"
	"github.com/albapepper/shotmap/internal/provider"
)

const upsertMatchSQL = `
	INSERT INTO ` + config.MatchesTable + ` (
		id, season, is_result, side, h_id, h_title, h_short_title,
		a_id, a_title, a_short_title, h_goals, a_goals, h_xg, a_xg,
		kickoff, forecast_w, forecast_d, forecast_l, result
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	ON CONFLICT (id) DO UPDATE SET
		season = EXCLUDED.season,
		is_result = EXCLUDED.is_result,
		side = COALESCE(EXCLUDED.side, ` + config.MatchesTable + `.side),
		h_goals = EXCLUDED.h_goals,
		a_goals = EXCLUDED.a_goals,
		h_xg = EXCLUDED.h_xg,
		a_xg = EXCLUDED.a_xg,
		kickoff = EXCLUDED.kickoff,
		forecast_w = EXCLUDED.forecast_w,
		forecast_d = EXCLUDED.forecast_d,
		forecast_l = EXCLUDED.forecast_l,
		result = COALESCE(EXCLUDED.result, ` + config.MatchesTable + `.result),
		updated_at = NOW()`

const insertShotSQL = `
	INSERT INTO ` + config.ShotsTable + ` (
		id, season, match_id, minute, result, x, y, xg, player, player_id,
		h_a, situation, shot_type, last_action, player_assisted,
		h_team, a_team, h_goals, a_goals, match_date
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	ON CONFLICT (id) DO UPDATE SET
		season = EXCLUDED.season,
		xg = EXCLUDED.xg,
		result = EXCLUDED.result,
		updated_at = NOW()`

// SaveMatches upserts matches in one batch.
func (p *Pool) SaveMatches(ctx context.Context, matches []provider.Match) (int, error) {
	batch := &pgx.Batch{}
	for _, m := range matches {
		batch.Queue(upsertMatchSQL, matchArgs(m)...)
	}
	if err := p.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("upsert matches: %w", err)
	}
	p.logger.Info("Mirrored matches", "count", len(matches))
	return len(matches), nil
}

// SaveShots replaces the season's shots in one transaction, matching the
// flat file's replace-not-merge semantics.
func (p *Pool) SaveShots(ctx context.Context, season string, shots []provider.Shot) (int, error) {
	tx, err := p.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "delete_season_shots", season); err != nil {
		return 0, fmt.Errorf("delete season %s shots: %w", season, err)
	}

	batch := &pgx.Batch{}
	for _, s := range shots {
		batch.Queue(insertShotSQL, shotArgs(season, s)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert season %s shots: %w", season, err)
	}

	var n int
	if err := tx.QueryRow(ctx, "count_season_shots", season).Scan(&n); err != nil {
		return 0, fmt.Errorf("count season %s shots: %w", season, err)
	}
	if err := p.notifyShots(ctx, tx, season, n); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	p.logger.Info("Mirrored shots", "season", season, "count", n)
	return n, nil
}

func matchArgs(m provider.Match) []interface{} {
	return []interface{}{
		m.ID, m.Season, m.IsResult, nilEmpty(m.Side),
		nilEmpty(m.Home.ID), m.Home.Title, nilEmpty(m.Home.ShortTitle),
		nilEmpty(m.Away.ID), m.Away.Title, nilEmpty(m.Away.ShortTitle),
		m.HomeGoals, m.AwayGoals, m.HomeXG, m.AwayXG,
		nilEmpty(m.DateTime), m.Forecast.Win, m.Forecast.Draw, m.Forecast.Loss,
		nilEmpty(m.Result),
	}
}

func shotArgs(season string, s provider.Shot) []interface{} {
	if s.Season != "" {
		season = s.Season
	}
	return []interface{}{
		s.ID, season, s.MatchID, s.Minute, s.Result, s.X, s.Y, s.XG,
		s.Player, nilEmpty(s.PlayerID), s.Side, nilEmpty(s.Situation),
		nilEmpty(s.ShotType), nilEmpty(s.LastAction), nilEmpty(s.PlayerAssisted),
		s.HomeTeam, s.AwayTeam, s.HomeGoals, s.AwayGoals, nilEmpty(s.Date),
	}
}

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
