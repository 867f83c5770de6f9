package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/shotmap/internal/cache"
	"github.com/albapepper/shotmap/internal/dashboard"
	"github.com/albapepper/shotmap/internal/ingest"
	"github.com/albapepper/shotmap/internal/provider"
	"github.com/albapepper/shotmap/internal/store"
)

type noopRefresher struct{}

func (noopRefresher) Run(context.Context, []string) (*ingest.RunResult, error) {
	return &ingest.RunResult{}, nil
}

func newTestHandler(t *testing.T) (*Handler, *dashboard.Session, *cache.Cache) {
	t.Helper()
	s := store.New(t.TempDir(), "spurs_matches.csv", "tottenham_shots_%s.csv")
	_, err := s.WriteShots("2024", []provider.Shot{
		{ID: "1", Player: "Heung-Min Son", Minute: 70, Result: provider.ResultGoal, XG: 0.3, X: 0.9, Y: 0.5, HomeTeam: "Tottenham", AwayTeam: "Arsenal"},
	})
	require.NoError(t, err)

	sess := dashboard.NewSession(s, noopRefresher{}, []string{"2024"}, "2024", nil)
	c := cache.New(true)
	t.Cleanup(c.Close)
	return New(sess, c, nil, "Tottenham", nil), sess, c
}

func TestCachedSkipsStoreAfterReload(t *testing.T) {
	h, sess, c := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/pitch.svg?team=Tottenham", nil)
	w := httptest.NewRecorder()

	data, ok := h.load(w, req)
	require.True(t, ok)
	h.cached(w, req, data.gen, "pitch|Tottenham|", "image/svg+xml", cache.TTLShots, func() ([]byte, error) {
		sess.Reload()
		return []byte("<svg>stale</svg>"), nil
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<svg>stale</svg>", w.Body.String(), "the request itself is still answered")
	_, _, hit := c.Get("pitch|Tottenham|")
	assert.False(t, hit, "output built from pre-reload data is not cached")
}

func TestCachedStoresWithoutReload(t *testing.T) {
	h, _, c := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	w := httptest.NewRecorder()

	data, ok := h.load(w, req)
	require.True(t, ok)
	h.cached(w, req, data.gen, "teams", "application/json", cache.TTLOptions, func() ([]byte, error) {
		return []byte(`["Arsenal","Tottenham"]`), nil
	})

	cached, _, hit := c.Get("teams")
	require.True(t, hit)
	assert.JSONEq(t, `["Arsenal","Tottenham"]`, string(cached))
}
