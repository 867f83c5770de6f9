package understat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/shotmap/internal/provider"
)

// encodeJS hex-escapes every non-alphanumeric byte the way Understat does.
func encodeJS(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var b strings.Builder
	for _, c := range raw {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, `\x%02X`, c)
		}
	}
	return b.String()
}

func page(varName, literal string) string {
	return `<html><head><script src="/js/app.js"></script></head><body>
<script>
	var teamsData = JSON.parse('\x7B\x7D');
	var ` + varName + ` = JSON.parse('` + literal + `');
</script></body></html>`
}

var leagueDates = []map[string]interface{}{
	{
		"id": "22275", "isResult": true,
		"h":     map[string]string{"id": "82", "title": "Tottenham", "short_title": "TOT"},
		"a":     map[string]string{"id": "83", "title": "Arsenal", "short_title": "ARS"},
		"goals": map[string]string{"h": "2", "a": "1"},
		"xG":    map[string]string{"h": "1.8", "a": "0.9"},
		"datetime": "2024-09-15 13:00:00",
		"forecast": map[string]string{"w": "0.55", "d": "0.25", "l": "0.2"},
	},
	{
		"id": "22400", "isResult": false,
		"h":     map[string]string{"id": "87", "title": "Chelsea", "short_title": "CHE"},
		"a":     map[string]string{"id": "82", "title": "Tottenham", "short_title": "TOT"},
		"goals": map[string]interface{}{"h": nil, "a": nil},
		"xG":    map[string]interface{}{"h": nil, "a": nil},
		"datetime": "2025-04-03 19:45:00",
	},
}

var matchShots = map[string]interface{}{
	"h": []map[string]interface{}{
		{
			"id": "600001", "minute": "12", "result": "Goal", "X": "0.885", "Y": "0.5",
			"xG": "0.7612", "player": "Sergio Reguilón", "h_a": "h", "player_id": "7700",
			"situation": "OpenPlay", "season": "2024", "shotType": "LeftFoot", "match_id": "22275",
			"h_team": "Tottenham", "a_team": "Arsenal", "h_goals": "2", "a_goals": "1",
			"date": "2024-09-15 13:00:00", "player_assisted": "James Maddison", "lastAction": "Pass",
		},
	},
	"a": []map[string]interface{}{
		{
			"id": "600002", "minute": 44, "result": "SavedShot", "X": "0.79", "Y": "0.41",
			"xG": "not-a-number", "player": "Bukayo Saka", "h_a": "a", "player_id": "7322",
			"situation": "FromCorner", "season": "2024", "shotType": "Head", "match_id": "22275",
			"h_team": "Tottenham", "a_team": "Arsenal", "h_goals": "2", "a_goals": "1",
			"date": "2024-09-15 13:00:00", "player_assisted": nil, "lastAction": "Cross",
		},
	},
}

func newTestServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/league/EPL/2024", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, page("datesData", encodeJS(t, leagueDates)))
	})
	mux.HandleFunc("/team/Manchester_United/2024", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, page("datesData", encodeJS(t, leagueDates[:1])))
	})
	mux.HandleFunc("/match/22275", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, page("shotsData", encodeJS(t, matchShots)))
	})
	mux.HandleFunc("/match/22276", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `<html><body><script>var rostersData = JSON.parse('\x7B\x7D');</script></body></html>`)
	})
	mux.HandleFunc("/match/50000", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestHandler(baseURL string) *Handler {
	return NewHandler(baseURL, 6000, 5*time.Second, nil)
}

func TestLeagueMatches(t *testing.T) {
	srv, _ := newTestServer(t)
	h := newTestHandler(srv.URL)

	matches, err := h.LeagueMatches(context.Background(), "EPL", "2024")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	m := matches[0]
	assert.Equal(t, "22275", m.ID)
	assert.Equal(t, "2024", m.Season)
	assert.True(t, m.IsResult)
	assert.Equal(t, "Tottenham", m.Home.Title)
	assert.Equal(t, "ARS", m.Away.ShortTitle)
	assert.Equal(t, 2, m.HomeGoals)
	assert.Equal(t, 1, m.AwayGoals)
	assert.InDelta(t, 1.8, m.HomeXG, 1e-9)
	assert.InDelta(t, 0.55, m.Forecast.Win, 1e-9)

	unplayed := matches[1]
	assert.False(t, unplayed.IsResult)
	assert.Equal(t, 0, unplayed.HomeGoals)
	assert.Equal(t, 0.0, unplayed.AwayXG)
}

func TestTeamMatchesUsesUnderscoredName(t *testing.T) {
	srv, _ := newTestServer(t)
	h := newTestHandler(srv.URL)

	matches, err := h.TeamMatches(context.Background(), "Manchester United", "2024")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestTeamMatchesNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	h := newTestHandler(srv.URL)

	_, err := h.TeamMatches(context.Background(), "Tottenham", "1999")
	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestMatchShots(t *testing.T) {
	srv, _ := newTestServer(t)
	h := newTestHandler(srv.URL)

	shots, err := h.MatchShots(context.Background(), "22275")
	require.NoError(t, err)
	require.Len(t, shots.Home, 1)
	require.Len(t, shots.Away, 1)

	home := shots.Home[0]
	assert.Equal(t, "Sergio Reguilón", home.Player, "multi-byte names survive hex escaping")
	assert.Equal(t, 12, home.Minute)
	assert.InDelta(t, 0.885, home.X, 1e-9)
	assert.InDelta(t, 0.5, home.Y, 1e-9)
	assert.InDelta(t, 0.7612, home.XG, 1e-9)
	assert.Equal(t, "James Maddison", home.PlayerAssisted)
	assert.Equal(t, provider.SideHome, home.Side)

	away := shots.Away[0]
	assert.Equal(t, 44, away.Minute, "unquoted numbers are accepted")
	assert.Equal(t, 0.0, away.XG, "unparseable xG coerces to zero")
	assert.Empty(t, away.PlayerAssisted)
	assert.Equal(t, "Arsenal", away.AwayTeam)
}

func TestMatchShotsInvalidMatch(t *testing.T) {
	srv, hits := newTestServer(t)
	h := newTestHandler(srv.URL)

	tests := []struct {
		name     string
		matchID  string
		wantHits int32
	}{
		{"non numeric id never hits the network", "abc", 0},
		{"empty id", "", 0},
		{"unknown match 404", "99999", 1},
		{"page without shots", "22276", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := atomic.LoadInt32(hits)
			_, err := h.MatchShots(context.Background(), tt.matchID)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidMatch)
			assert.Equal(t, tt.wantHits, atomic.LoadInt32(hits)-before)
		})
	}
}

func TestMatchShotsGenericFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	h := newTestHandler(srv.URL)

	_, err := h.MatchShots(context.Background(), "50000")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidMatch)
	assert.Contains(t, err.Error(), "500")
}

func TestUnescapeJS(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"hex", `\x5B\x7B\x22a\x22\x3A1\x7D\x5D`, `[{"a":1}]`, false},
		{"utf8 bytes", `Reguil\xC3\xB3n`, "Reguilón", false},
		{"unicode", `Drăgușin`, "Drăgușin", false},
		{"quotes", `O\'Brien \"x\"`, `O'Brien "x"`, false},
		{"unknown escape kept", `a\qb`, `a\qb`, false},
		{"short hex", `\x5`, "", true},
		{"bad hex", `\xZZ`, "", true},
		{"dangling", `abc\`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unescapeJS(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12","b":0.25,"c":null}`), &v))
	assert.Equal(t, "12", v.A.String())
	assert.Equal(t, "0.25", v.B.String())
	assert.Equal(t, "", v.C.String())

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}
