// Package handler provides HTTP handlers for all API endpoints.
// Report handlers go through the pipeline generator, which serves cached
// renderings and builds on a miss.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/fpl-league-report/internal/api/respond"
	"github.com/albapepper/fpl-league-report/internal/cache"
	"github.com/albapepper/fpl-league-report/internal/config"
	"github.com/albapepper/fpl-league-report/internal/pipeline"
)

// Version is reported at / and in the swagger info.
const Version = "1.0.0"

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	gen    *pipeline.Generator
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(gen *pipeline.Generator, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{gen: gen, cache: c, cfg: cfg, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the default league.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":           "FPL League Report API",
		"version":        Version,
		"status":         "running",
		"docs":           "/docs",
		"default_league": h.cfg.LeagueID,
		"endpoints": []string{
			"/api/v1/report",
			"/api/v1/report/summary",
		},
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
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory report cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
