// Package handler provides HTTP handlers for the dashboard page, the shot
// map image and the JSON API. Every handler reads the session's memoized
// shot data; rendered responses are cached per filter until a refresh.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/shotmap/internal/api/respond"
	"github.com/albapepper/shotmap/internal/cache"
	"github.com/albapepper/shotmap/internal/dashboard"
	"github.com/albapepper/shotmap/internal/provider"
)

// Pinger reports database connectivity.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	session *dashboard.Session
	cache   *cache.Cache
	db      Pinger // nil when the mirror is not configured
	club    string
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies and purges the response
// cache whenever the session refreshes.
func New(session *dashboard.Session, c *cache.Cache, db Pinger, club string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	session.OnRefresh(func() {
		n := c.Purge()
		logger.Info("Response cache purged", "entries", n)
	})
	return &Handler{
		session: session,
		cache:   c,
		db:      db,
		club:    club,
		logger:  logger,
	}
}

// loaded is session data together with the response cache generation read
// before it was loaded.
type loaded struct {
	shots []provider.Shot
	gen   int
}

// load returns the session data or writes a JSON error.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (loaded, bool) {
	gen := h.cache.Generation()
	data, err := h.session.Load(r.Context())
	if err != nil {
		h.logger.Error("Failed to load shot data", "error", err)
		code := "LOAD_FAILED"
		if errors.Is(err, dashboard.ErrNoData) {
			code = "NO_DATA"
		}
		respond.WriteErrorDetail(w, http.StatusInternalServerError, code, "Shot data could not be loaded", err.Error())
		return loaded{}, false
	}
	return loaded{shots: data, gen: gen}, true
}

// cached serves key from the response cache, or renders it with build and
// serves it. The rendering is stored only if no refresh purged the cache
// since the data was loaded.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, gen int, key, contentType string, ttl time.Duration, build func() ([]byte, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		respond.WriteCached(w, r, contentType, data, etag, ttl, true)
		return
	}
	data, err := build()
	if err != nil {
		h.logger.Error("Failed to render response", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "RENDER_FAILED", "Response could not be rendered")
		return
	}
	etag, stored := h.cache.SetIfGeneration(key, data, ttl, gen)
	if !stored {
		h.logger.Debug("Response not cached", "key", key)
	}
	respond.WriteCached(w, r, contentType, data, etag, ttl, false)
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"season":    h.session.Season(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies mirror database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity when the database mirror is configured.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "disabled",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns response cache and shot data cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"data":      h.session.Cache().Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
