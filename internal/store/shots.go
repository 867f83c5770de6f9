package store

import (
	"fmt"
	"strconv"

	"github.com/albapepper/shotmap/internal/provider"
)

var shotColumns = []string{
	"id", "minute", "result", "X", "Y", "xG",
	"player", "h_a", "player_id", "situation", "season", "shotType",
	"match_id", "h_team", "a_team", "h_goals", "a_goals", "date",
	"player_assisted", "lastAction",
}

// WriteShots replaces the season's shot file and returns its path.
func (s *Store) WriteShots(season string, shots []provider.Shot) (string, error) {
	rows := make([][]string, 0, len(shots))
	for _, sh := range shots {
		rows = append(rows, []string{
			sh.ID, strconv.Itoa(sh.Minute), sh.Result,
			formatFloat(sh.X), formatFloat(sh.Y), formatFloat(provider.CoerceXG(sh.XG)),
			sh.Player, sh.Side, sh.PlayerID, sh.Situation, sh.Season, sh.ShotType,
			sh.MatchID, sh.HomeTeam, sh.AwayTeam,
			strconv.Itoa(sh.HomeGoals), strconv.Itoa(sh.AwayGoals), sh.Date,
			sh.PlayerAssisted, sh.LastAction,
		})
	}
	path := s.ShotsPath(season)
	if err := writeFile(path, shotColumns, rows); err != nil {
		return "", fmt.Errorf("write shots %s: %w", season, err)
	}
	return path, nil
}

// ReadShots loads a season's shot file. xG is coerced to a non-negative
// float on the way in; a missing file is reported so that IsNotExist(err)
// is true.
func (s *Store) ReadShots(season string) ([]provider.Shot, error) {
	rows, err := readFile(s.ShotsPath(season), []string{"player", "X", "Y", "xG", "result", "h_team", "a_team"})
	if err != nil {
		return nil, fmt.Errorf("read shots %s: %w", season, err)
	}
	shots := make([]provider.Shot, 0, len(rows))
	for _, row := range rows {
		sh := provider.Shot{
			ID:             row["id"],
			Minute:         provider.ParseInt(row["minute"]),
			Result:         row["result"],
			XG:             provider.CoerceXG(row["xG"]),
			Player:         row["player"],
			Side:           row["h_a"],
			PlayerID:       row["player_id"],
			Situation:      row["situation"],
			ShotType:       row["shotType"],
			LastAction:     row["lastAction"],
			PlayerAssisted: row["player_assisted"],
			HomeTeam:       row["h_team"],
			AwayTeam:       row["a_team"],
			HomeGoals:      provider.ParseInt(row["h_goals"]),
			AwayGoals:      provider.ParseInt(row["a_goals"]),
			Date:           row["date"],
			MatchID:        row["match_id"],
			Season:         row["season"],
		}
		sh.X, _ = provider.ExtractValue(row["X"])
		sh.Y, _ = provider.ExtractValue(row["Y"])
		shots = append(shots, sh)
	}
	return shots, nil
}
