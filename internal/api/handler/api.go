package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/albapepper/shotmap/internal/api/respond"
	"github.com/albapepper/shotmap/internal/cache"
	"github.com/albapepper/shotmap/internal/dashboard"
)

// ShotsResponse is the body of GET /api/v1/shots.
type ShotsResponse struct {
	Team   string          `json:"team,omitempty"`
	Player string          `json:"player,omitempty"`
	Count  int             `json:"count"`
	Rows   []dashboard.Row `json:"rows"`
}

// SummaryResponse is the body of GET /api/v1/summary.
type SummaryResponse struct {
	Team       string            `json:"team,omitempty"`
	Player     string            `json:"player,omitempty"`
	Metrics    dashboard.Metrics `json:"metrics"`
	XG         string            `json:"xg_display"`
	Conversion string            `json:"conversion_display"`
}

// GetTeams lists every team in the loaded shot data.
// @Summary List teams
// @Description Returns every team that appears on either side of a match in the current-season shot file, sorted.
// @Tags shots
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/teams [get]
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	data, ok := h.load(w, r)
	if !ok {
		return
	}
	h.cached(w, r, data.gen, cache.Key("teams"), respond.ContentJSON, cache.TTLOptions, func() ([]byte, error) {
		return json.Marshal(dashboard.Teams(data.shots))
	})
}

// GetPlayers lists the shooters in a team's matches.
// @Summary List players
// @Description Returns the players who took a shot in matches involving the team, sorted.
// @Tags shots
// @Produce json
// @Param team query string true "Team name, e.g. Tottenham"
// @Success 200 {array} string
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/players [get]
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if team == "" {
		writeMissing(w, "team")
		return
	}
	data, ok := h.load(w, r)
	if !ok {
		return
	}
	h.cached(w, r, data.gen, cache.Key("players", team), respond.ContentJSON, cache.TTLOptions, func() ([]byte, error) {
		return json.Marshal(dashboard.Players(data.shots, team))
	})
}

// GetShots returns filtered shot rows.
// @Summary List shots
// @Description Returns shot rows filtered by team and player, sorted by minute unless another column is requested.
// @Tags shots
// @Produce json
// @Param team query string false "Team name"
// @Param player query string false "Player name"
// @Param sort query string false "Sort column" Enums(player, minute, result, xg, situation, assisted_by)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} ShotsResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/shots [get]
func (h *Handler) GetShots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	team, player := q.Get("team"), q.Get("player")
	order := dashboard.ParseSort(q.Get("sort"), q.Get("order"))

	data, ok := h.load(w, r)
	if !ok {
		return
	}
	key := cache.Key("shots", team, player, order.Column, boolKey(order.Desc))
	h.cached(w, r, data.gen, key, respond.ContentJSON, cache.TTLShots, func() ([]byte, error) {
		rows := dashboard.Table(dashboard.Filter(data.shots, team, player), order)
		return json.Marshal(ShotsResponse{Team: team, Player: player, Count: len(rows), Rows: rows})
	})
}

// GetSummary returns aggregate metrics for a filter.
// @Summary Shot summary
// @Description Returns total shots, goals, summed xG and conversion rate for the filtered shots.
// @Tags shots
// @Produce json
// @Param team query string false "Team name"
// @Param player query string false "Player name"
// @Success 200 {object} SummaryResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	team, player := q.Get("team"), q.Get("player")

	data, ok := h.load(w, r)
	if !ok {
		return
	}
	h.cached(w, r, data.gen, cache.Key("summary", team, player), respond.ContentJSON, cache.TTLShots, func() ([]byte, error) {
		m := dashboard.Summarize(dashboard.Filter(data.shots, team, player))
		return json.Marshal(SummaryResponse{
			Team:       team,
			Player:     player,
			Metrics:    m,
			XG:         m.FormatXG(),
			Conversion: m.FormatConversion(),
		})
	})
}

func boolKey(b bool) string {
	if b {
		return "desc"
	}
	return "asc"
}

func writeMissing(w http.ResponseWriter, param string) {
	respond.WriteError(w, http.StatusBadRequest, "MISSING_"+strings.ToUpper(param), param+" query parameter is required")
}
