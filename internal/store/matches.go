package store

import (
	"fmt"
	"strconv"

	"github.com/albapepper/shotmap/internal/provider"
)

var matchColumns = []string{
	"id", "isResult", "side",
	"h_id", "h_title", "h_short_title",
	"a_id", "a_title", "a_short_title",
	"h_goals", "a_goals", "h_xG", "a_xG",
	"datetime", "forecast_w", "forecast_d", "forecast_l",
	"result", "season",
}

// WriteMatches replaces the combined match file.
func (s *Store) WriteMatches(matches []provider.Match) error {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			m.ID, strconv.FormatBool(m.IsResult), m.Side,
			m.Home.ID, m.Home.Title, m.Home.ShortTitle,
			m.Away.ID, m.Away.Title, m.Away.ShortTitle,
			strconv.Itoa(m.HomeGoals), strconv.Itoa(m.AwayGoals),
			formatFloat(m.HomeXG), formatFloat(m.AwayXG),
			m.DateTime,
			formatFloat(m.Forecast.Win), formatFloat(m.Forecast.Draw), formatFloat(m.Forecast.Loss),
			m.Result, m.Season,
		})
	}
	if err := writeFile(s.MatchesPath(), matchColumns, rows); err != nil {
		return fmt.Errorf("write matches: %w", err)
	}
	return nil
}

// ReadMatches loads the combined match file.
func (s *Store) ReadMatches() ([]provider.Match, error) {
	rows, err := readFile(s.MatchesPath(), []string{"id", "h_title", "a_title"})
	if err != nil {
		return nil, fmt.Errorf("read matches: %w", err)
	}
	matches := make([]provider.Match, 0, len(rows))
	for _, row := range rows {
		isResult, _ := strconv.ParseBool(row["isResult"])
		matches = append(matches, provider.Match{
			ID:        row["id"],
			Season:    row["season"],
			IsResult:  isResult,
			Side:      row["side"],
			Home:      provider.TeamRef{ID: row["h_id"], Title: row["h_title"], ShortTitle: row["h_short_title"]},
			Away:      provider.TeamRef{ID: row["a_id"], Title: row["a_title"], ShortTitle: row["a_short_title"]},
			HomeGoals: provider.ParseInt(row["h_goals"]),
			AwayGoals: provider.ParseInt(row["a_goals"]),
			HomeXG:    provider.CoerceXG(row["h_xG"]),
			AwayXG:    provider.CoerceXG(row["a_xG"]),
			DateTime:  row["datetime"],
			Forecast: provider.Forecast{
				Win:  provider.CoerceXG(row["forecast_w"]),
				Draw: provider.CoerceXG(row["forecast_d"]),
				Loss: provider.CoerceXG(row["forecast_l"]),
			},
			Result: row["result"],
		})
	}
	return matches, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
