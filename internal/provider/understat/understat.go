package understat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/albapepper/shotmap/internal/provider"
)

// ErrInvalidMatch is returned by MatchShots for match IDs Understat cannot
// serve.
var ErrInvalidMatch = provider.ErrInvalidMatch

// Handler fetches and normalizes Understat data into canonical types.
type Handler struct {
	client *Client
	logger *slog.Logger
}

// NewHandler creates an Understat handler.
func NewHandler(baseURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: NewClient(baseURL, requestsPerMinute, timeout, logger),
		logger: logger,
	}
}

// --------------------------------------------------------------------------
// Matches
// --------------------------------------------------------------------------

type rawTeam struct {
	ID         flexString `json:"id"`
	Title      string     `json:"title"`
	ShortTitle string     `json:"short_title"`
}

type rawSides struct {
	H flexString `json:"h"`
	A flexString `json:"a"`
}

type rawMatch struct {
	ID       flexString `json:"id"`
	IsResult bool       `json:"isResult"`
	Side     string     `json:"side"`
	H        rawTeam    `json:"h"`
	A        rawTeam    `json:"a"`
	Goals    rawSides   `json:"goals"`
	XG       rawSides   `json:"xG"`
	Datetime string     `json:"datetime"`
	Forecast struct {
		W flexString `json:"w"`
		D flexString `json:"d"`
		L flexString `json:"l"`
	} `json:"forecast"`
	Result string `json:"result"`
}

// TeamMatches fetches every fixture of a team in a season.
func (h *Handler) TeamMatches(ctx context.Context, team, season string) ([]provider.Match, error) {
	path := fmt.Sprintf("/team/%s/%s", pathName(team), url.PathEscape(season))
	matches, err := h.datesData(ctx, path, season)
	if err != nil {
		return nil, fmt.Errorf("fetch %s matches for %s: %w", team, season, err)
	}
	return matches, nil
}

// LeagueMatches fetches every fixture of a league in a season.
func (h *Handler) LeagueMatches(ctx context.Context, league, season string) ([]provider.Match, error) {
	path := fmt.Sprintf("/league/%s/%s", pathName(league), url.PathEscape(season))
	matches, err := h.datesData(ctx, path, season)
	if err != nil {
		return nil, fmt.Errorf("fetch %s matches for %s: %w", league, season, err)
	}
	return matches, nil
}

func (h *Handler) datesData(ctx context.Context, path, season string) ([]provider.Match, error) {
	doc, err := h.client.getPage(ctx, path)
	if err != nil {
		return nil, err
	}
	data, err := extractVar(doc, "datesData")
	if err != nil {
		return nil, err
	}

	var raw []rawMatch
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode datesData: %w", err)
	}

	matches := make([]provider.Match, 0, len(raw))
	for _, m := range raw {
		matches = append(matches, normalizeMatch(m, season))
	}
	return matches, nil
}

func normalizeMatch(raw rawMatch, season string) provider.Match {
	return provider.Match{
		ID:       raw.ID.String(),
		Season:   season,
		IsResult: raw.IsResult,
		Side:     raw.Side,
		Home: provider.TeamRef{
			ID:         raw.H.ID.String(),
			Title:      raw.H.Title,
			ShortTitle: raw.H.ShortTitle,
		},
		Away: provider.TeamRef{
			ID:         raw.A.ID.String(),
			Title:      raw.A.Title,
			ShortTitle: raw.A.ShortTitle,
		},
		HomeGoals: provider.ParseInt(raw.Goals.H.String()),
		AwayGoals: provider.ParseInt(raw.Goals.A.String()),
		HomeXG:    provider.CoerceXG(raw.XG.H.String()),
		AwayXG:    provider.CoerceXG(raw.XG.A.String()),
		DateTime:  raw.Datetime,
		Forecast: provider.Forecast{
			Win:  provider.CoerceXG(raw.Forecast.W.String()),
			Draw: provider.CoerceXG(raw.Forecast.D.String()),
			Loss: provider.CoerceXG(raw.Forecast.L.String()),
		},
		Result: raw.Result,
	}
}

// --------------------------------------------------------------------------
// Shots
// --------------------------------------------------------------------------

type rawShot struct {
	ID             flexString  `json:"id"`
	Minute         flexString  `json:"minute"`
	Result         string      `json:"result"`
	X              flexString  `json:"X"`
	Y              flexString  `json:"Y"`
	XG             interface{} `json:"xG"`
	Player         string      `json:"player"`
	HA             string      `json:"h_a"`
	PlayerID       flexString  `json:"player_id"`
	Situation      string      `json:"situation"`
	Season         flexString  `json:"season"`
	ShotType       string      `json:"shotType"`
	MatchID        flexString  `json:"match_id"`
	HTeam          string      `json:"h_team"`
	ATeam          string      `json:"a_team"`
	HGoals         flexString  `json:"h_goals"`
	AGoals         flexString  `json:"a_goals"`
	Date           string      `json:"date"`
	PlayerAssisted *string     `json:"player_assisted"`
	LastAction     string      `json:"lastAction"`
}

// MatchShots fetches the shots of both sides of a match. Match IDs that
// are not numeric, unknown to Understat, or whose page carries no shot
// data yield ErrInvalidMatch.
func (h *Handler) MatchShots(ctx context.Context, matchID string) (provider.MatchShots, error) {
	if !isDigits(matchID) {
		return provider.MatchShots{}, fmt.Errorf("match %q: %w", matchID, ErrInvalidMatch)
	}

	doc, err := h.client.getPage(ctx, "/match/"+matchID)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return provider.MatchShots{}, fmt.Errorf("match %s: %w", matchID, ErrInvalidMatch)
		}
		return provider.MatchShots{}, err
	}

	data, err := extractVar(doc, "shotsData")
	if err != nil {
		if errors.Is(err, errVarNotFound) {
			return provider.MatchShots{}, fmt.Errorf("match %s: %w", matchID, ErrInvalidMatch)
		}
		return provider.MatchShots{}, err
	}

	var raw struct {
		H []rawShot `json:"h"`
		A []rawShot `json:"a"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return provider.MatchShots{}, fmt.Errorf("decode shotsData for match %s: %w", matchID, err)
	}

	shots := provider.MatchShots{
		Home: make([]provider.Shot, 0, len(raw.H)),
		Away: make([]provider.Shot, 0, len(raw.A)),
	}
	for _, s := range raw.H {
		shots.Home = append(shots.Home, normalizeShot(s))
	}
	for _, s := range raw.A {
		shots.Away = append(shots.Away, normalizeShot(s))
	}
	return shots, nil
}

func normalizeShot(raw rawShot) provider.Shot {
	shot := provider.Shot{
		ID:         raw.ID.String(),
		Minute:     provider.ParseInt(raw.Minute.String()),
		Result:     raw.Result,
		XG:         provider.CoerceXG(raw.XG),
		Player:     raw.Player,
		Side:       raw.HA,
		PlayerID:   raw.PlayerID.String(),
		Situation:  raw.Situation,
		ShotType:   raw.ShotType,
		LastAction: raw.LastAction,
		HomeTeam:   raw.HTeam,
		AwayTeam:   raw.ATeam,
		HomeGoals:  provider.ParseInt(raw.HGoals.String()),
		AwayGoals:  provider.ParseInt(raw.AGoals.String()),
		Date:       raw.Date,
		MatchID:    raw.MatchID.String(),
		Season:     raw.Season.String(),
	}
	shot.X, _ = provider.ExtractValue(raw.X.String())
	shot.Y, _ = provider.ExtractValue(raw.Y.String())
	if raw.PlayerAssisted != nil {
		shot.PlayerAssisted = *raw.PlayerAssisted
	}
	return shot
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// pathName converts a team or league name to Understat's URL form,
// e.g. "Manchester United" -> "Manchester_United".
func pathName(name string) string {
	return url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
