// Package handler provides HTTP handlers for all API endpoints. Handlers
// decode the request, call the job runner or the event pipeline, and write
// the result; no business rules live here.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/api/respond"
	"github.com/ecopilot/ecopilot-backend/internal/app"
	"github.com/ecopilot/ecopilot-backend/internal/cache"
	"github.com/ecopilot/ecopilot-backend/internal/config"
	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/jobs"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store       store.Store
	runner      *jobs.Runner
	pipeline    *notifications.Pipeline
	cache       *cache.Cache
	cfg         *config.Config
	logger      *slog.Logger
	pushEnabled bool
	now         func() time.Time
}

// New creates a Handler from the application dependencies.
func New(a *app.App) *Handler {
	return &Handler{
		store:       a.Store,
		runner:      a.Runner,
		pipeline:    a.Pipeline,
		cache:       a.Cache,
		cfg:         a.Config,
		logger:      a.Logger,
		pushEnabled: a.PushEnabled,
		now:         time.Now,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns service name, version, status and the active store backend.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "EcoPilot Backend",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs/",
		"store":   h.cfg.StoreBackend,
		"push":    h.pushEnabled,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStore verifies store connectivity.
// @Summary Store health check
// @Description Verifies connectivity to the configured store backend.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("Store health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"store":     h.cfg.StoreBackend,
			"error":     "Store connection check failed",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"store":     h.cfg.StoreBackend,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// parseDate reads a YYYY-MM-DD value. Empty and "today" mean the current UTC
// date.
func (h *Handler) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "today" {
		s = content.FormatDate(h.now())
	}
	d, err := content.ParseDate(s)
	return d, err == nil
}

// writeErr maps domain errors to HTTP errors.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notifications.ErrMalformed):
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeMalformed, "Malformed event", err.Error())
	case errors.Is(err, jobs.ErrInvalidDays):
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeBadRequest, "Invalid days", err.Error())
	case errors.Is(err, store.ErrNotFound):
		respond.WriteErrorDetail(w, http.StatusNotFound, respond.CodeNotFound, "Not found", err.Error())
	case errors.Is(err, jobs.ErrNoPushToken):
		respond.WriteError(w, http.StatusUnprocessableEntity, respond.CodeNoPushToken, "User has no push token")
	default:
		h.logger.Error("Request failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "Internal error")
	}
}
