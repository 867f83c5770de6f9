// Package provider defines canonical data types that the stats provider
// client normalizes into. These structs are the contract between the
// provider handler, the ingest pipeline, the flat-file store and the
// dashboard. The provider outputs these and everything downstream reads them.
//
// Adding a new provider means implementing functions that return these types.
package provider

import "errors"

// ErrInvalidMatch means a match ID does not identify a match the provider
// can serve shots for. Callers skip the match rather than fail the run.
var ErrInvalidMatch = errors.New("invalid match")

// Shot results as reported by the provider.
const (
	ResultGoal        = "Goal"
	ResultMissedShots = "MissedShots"
	ResultSavedShot   = "SavedShot"
	ResultBlockedShot = "BlockedShot"
	ResultShotOnPost  = "ShotOnPost"
	ResultOwnGoal     = "OwnGoal"
)

// Sides of a match, as used by the h_a shot flag.
const (
	SideHome = "h"
	SideAway = "a"
)

// TeamRef identifies one side of a match.
type TeamRef struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ShortTitle string `json:"short_title,omitempty"`
}

// Forecast is the provider's pre-computed win/draw/loss split for a match.
type Forecast struct {
	Win  float64 `json:"w"`
	Draw float64 `json:"d"`
	Loss float64 `json:"l"`
}

// Match is the canonical match record. Side and Result are only populated
// by the team endpoint (the side the queried team played on, and w/d/l).
type Match struct {
	ID        string   `json:"id"`
	Season    string   `json:"season"`
	IsResult  bool     `json:"is_result"`
	Side      string   `json:"side,omitempty"`
	Home      TeamRef  `json:"h"`
	Away      TeamRef  `json:"a"`
	HomeGoals int      `json:"h_goals"`
	AwayGoals int      `json:"a_goals"`
	HomeXG    float64  `json:"h_xg"`
	AwayXG    float64  `json:"a_xg"`
	DateTime  string   `json:"datetime"` // "YYYY-MM-DD HH:MM:SS"
	Forecast  Forecast `json:"forecast"`
	Result    string   `json:"result,omitempty"`
}

// HasTeam reports whether team played on either side of the match.
func (m Match) HasTeam(team string) bool {
	return m.Home.Title == team || m.Away.Title == team
}

// Shot is the canonical shot event, carrying a denormalized copy of its
// match context so a shot row stands on its own in a flat file.
type Shot struct {
	ID             string  `json:"id"`
	Minute         int     `json:"minute"`
	Result         string  `json:"result"`
	X              float64 `json:"X"`
	Y              float64 `json:"Y"`
	XG             float64 `json:"xG"`
	Player         string  `json:"player"`
	Side           string  `json:"h_a"`
	PlayerID       string  `json:"player_id"`
	Situation      string  `json:"situation"`
	ShotType       string  `json:"shotType"`
	LastAction     string  `json:"lastAction"`
	PlayerAssisted string  `json:"player_assisted,omitempty"`

	// Match context
	HomeTeam  string `json:"h_team"`
	AwayTeam  string `json:"a_team"`
	HomeGoals int    `json:"h_goals"`
	AwayGoals int    `json:"a_goals"`
	Date      string `json:"date"`
	MatchID   string `json:"match_id"`
	Season    string `json:"season"`
}

// IsGoal reports whether the shot was scored.
func (s Shot) IsGoal() bool {
	return s.Result == ResultGoal
}

// InvolvesTeam reports whether team played in the shot's match.
func (s Shot) InvolvesTeam(team string) bool {
	return s.HomeTeam == team || s.AwayTeam == team
}

// ShootingTeam returns the team on the side the shot's h_a flag indicates.
func (s Shot) ShootingTeam() string {
	if s.Side == SideHome {
		return s.HomeTeam
	}
	return s.AwayTeam
}

// WithContext returns a copy of the shot with the match context fields
// overwritten from m.
func (s Shot) WithContext(m Match) Shot {
	s.HomeTeam = m.Home.Title
	s.AwayTeam = m.Away.Title
	s.HomeGoals = m.HomeGoals
	s.AwayGoals = m.AwayGoals
	s.Date = m.DateTime
	s.MatchID = m.ID
	s.Season = m.Season
	return s
}

// MatchShots holds the shots for both sides of a single match.
type MatchShots struct {
	Home []Shot `json:"h"`
	Away []Shot `json:"a"`
}

// All returns home shots followed by away shots.
func (ms MatchShots) All() []Shot {
	out := make([]Shot, 0, len(ms.Home)+len(ms.Away))
	out = append(out, ms.Home...)
	return append(out, ms.Away...)
}
