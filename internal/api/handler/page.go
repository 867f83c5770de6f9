package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/albapepper/shotmap/internal/api/respond"
	"github.com/albapepper/shotmap/internal/cache"
	"github.com/albapepper/shotmap/internal/dashboard"
	"github.com/albapepper/shotmap/internal/pitch"
	"github.com/albapepper/shotmap/internal/provider"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Flash messages shown after a refresh.
const (
	FlashRefreshed     = "Data refreshed successfully!"
	FlashRefreshFailed = "Refresh failed, showing the last saved data."
	EmptyMessage       = "No shots available for the selected filters"
)

const timestampLayout = "2006-01-02 15:04:05"

type header struct {
	Title  string
	URL    string
	Active bool
	Desc   bool
}

type pageData struct {
	Club        string
	Season      string
	Selection   dashboard.Selection
	Metrics     dashboard.Metrics
	Rows        []dashboard.Row
	Headers     []header
	LastUpdated string
	Flash       string
	FlashError  string
	Empty       string
	PitchURL    string
}

type errorData struct {
	Status  int
	Message string
	Detail  string
}

// Dashboard renders the shot map page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data, err := h.session.Load(r.Context())
	if err != nil {
		h.logger.Error("Failed to load shot data", "error", err)
		h.renderPage(w, http.StatusInternalServerError, "error.html", errorData{
			Status:  http.StatusInternalServerError,
			Message: "Shot data could not be loaded.",
			Detail:  err.Error(),
		})
		return
	}

	sel := dashboard.Select(data, q.Get("team"), q.Get("player"))
	order := dashboard.ParseSort(q.Get("sort"), q.Get("order"))
	filtered := sel.Apply(data)

	page := pageData{
		Club:      h.club,
		Season:    h.session.Season(),
		Selection: sel,
		Metrics:   dashboard.Summarize(filtered),
		Rows:      dashboard.Table(filtered, order),
		Headers:   headers(sel, order),
		PitchURL:  selectionURL("/pitch.svg", sel, nil),
	}
	if len(filtered) == 0 {
		page.Empty = EmptyMessage
	}
	if t, ok := h.session.LastUpdated(); ok {
		page.LastUpdated = t.Format(timestampLayout)
	}
	switch q.Get("refreshed") {
	case "1":
		page.Flash = FlashRefreshed
	case "0":
		page.FlashError = FlashRefreshFailed
	}

	h.renderPage(w, http.StatusOK, "dashboard.html", page)
}

// Refresh re-runs the fetch pipeline and redirects back to the dashboard
// with the same selection.
// @Summary Refresh data
// @Description Fetches the latest matches and shots from the provider, rewrites the flat files and invalidates every cache. Redirects to the dashboard.
// @Tags shots
// @Accept x-www-form-urlencoded
// @Param team formData string false "Team to keep selected"
// @Param player formData string false "Player to keep selected"
// @Success 303 {string} string "Redirect to the dashboard"
// @Router /refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_FORM", "Form could not be parsed")
		return
	}
	sel := dashboard.Selection{Team: r.PostForm.Get("team"), Player: r.PostForm.Get("player")}

	refreshed := "1"
	res, err := h.session.Refresh(r.Context())
	if err != nil {
		h.logger.Error("Refresh failed", "error", err)
		refreshed = "0"
	} else {
		h.logger.Info("Refresh complete", "summary", res.Report.Summary())
	}

	http.Redirect(w, r, selectionURL("/", sel, url.Values{"refreshed": {refreshed}}), http.StatusSeeOther)
}

// Pitch renders the shot map SVG.
// @Summary Shot map image
// @Description Renders the half-pitch shot map for the selection as SVG. Marker area is proportional to xG; goals are drawn above other shots.
// @Tags shots
// @Produce image/svg+xml
// @Param team query string false "Team name"
// @Param player query string false "Player name, only honoured with a team"
// @Success 200 {string} string "SVG document"
// @Failure 500 {object} respond.ErrorResponse
// @Router /pitch.svg [get]
func (h *Handler) Pitch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data, ok := h.load(w, r)
	if !ok {
		return
	}
	sel := dashboard.Select(data.shots, q.Get("team"), q.Get("player"))

	h.cached(w, r, data.gen, cache.Key("pitch", sel.Team, sel.Player), respond.ContentSVG, cache.TTLShots, func() ([]byte, error) {
		var buf bytes.Buffer
		pitch.Render(&buf, pitchShots(sel.Apply(data.shots)), pitch.Options{Team: sel.Team, Player: sel.Player})
		return buf.Bytes(), nil
	})
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("Template failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", respond.ContentHTML)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// pitchShots converts filtered, rescaled shots into chart markers.
func pitchShots(shots []provider.Shot) []pitch.Shot {
	out := make([]pitch.Shot, len(shots))
	for i, s := range shots {
		out[i] = pitch.Shot{
			X:     s.X,
			Y:     s.Y,
			XG:    s.XG,
			Goal:  s.IsGoal(),
			Label: fmt.Sprintf("%s %d' %s (xG %.2f)", s.Player, s.Minute, s.Result, s.XG),
		}
	}
	return out
}

func headers(sel dashboard.Selection, order dashboard.Sort) []header {
	out := make([]header, len(dashboard.Columns))
	for i, c := range dashboard.Columns {
		active := c.Key == order.Column
		next := "asc"
		if active && !order.Desc {
			next = "desc"
		}
		out[i] = header{
			Title:  c.Title,
			URL:    selectionURL("/", sel, url.Values{"sort": {c.Key}, "order": {next}}),
			Active: active,
			Desc:   active && order.Desc,
		}
	}
	return out
}

// selectionURL builds path?team=&player=&extra.
func selectionURL(path string, sel dashboard.Selection, extra url.Values) string {
	v := url.Values{}
	if sel.Team != "" {
		v.Set("team", sel.Team)
		if sel.Player != "" {
			v.Set("player", sel.Player)
		}
	}
	for k, vals := range extra {
		v[k] = vals
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
