// Package handler provides HTTP handlers for all API endpoints. Handlers
// decode and validate input, call the store, dispatcher or stats engine, and
// map domain errors onto the JSON error envelope.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mapleleafu/water/internal/api/request"
	"github.com/mapleleafu/water/internal/api/respond"
	"github.com/mapleleafu/water/internal/cache"
	"github.com/mapleleafu/water/internal/config"
	"github.com/mapleleafu/water/internal/notifications"
	"github.com/mapleleafu/water/internal/stats"
	"github.com/mapleleafu/water/internal/store"
)

// Dispatcher runs one reminder pass.
type Dispatcher interface {
	Dispatch(ctx context.Context, force bool) (notifications.Result, error)
}

// StatsEngine serves the statistics queries.
type StatsEngine interface {
	GetStats(ctx context.Context, userID string, goal int) (*stats.Snapshot, error)
	GetDayDetail(ctx context.Context, userID string, day time.Time) ([]stats.DayEntry, error)
	Location() *time.Location
}

// Pinger reports database reachability.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the collaborators a Handler needs. DB may be nil when running
// against the in-memory store.
type Deps struct {
	Store      store.Store
	Dispatcher Dispatcher
	Stats      StatsEngine
	Cache      *cache.Cache
	DB         Pinger
	Config     *config.Config
	Logger     *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store      store.Store
	dispatcher Dispatcher
	stats      StatsEngine
	cache      *cache.Cache
	db         Pinger
	cfg        *config.Config
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := d.Cache
	if c == nil {
		c = cache.New(false)
	}
	return &Handler{
		store:      d.Store,
		dispatcher: d.Dispatcher,
		stats:      d.Stats,
		cache:      c,
		db:         d.DB,
		cfg:        d.Config,
		logger:     logger,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// writeErr maps an error from decoding or the domain onto a response.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *request.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeValidationFailed,
			"Request validation failed", verr.Fields)
	case errors.Is(err, request.ErrBadBody):
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeBadRequest,
			"Malformed JSON body", err.Error())
	case errors.Is(err, stats.ErrInvalidGoal):
		respond.WriteError(w, http.StatusBadRequest, respond.CodeValidationFailed, "goal must be positive")
	case errors.Is(err, store.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "User not found")
	case errors.Is(err, store.ErrConflict):
		respond.WriteError(w, http.StatusConflict, respond.CodeConflict, "Username already taken")
	default:
		h.logger.Error("Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "Internal server error")
	}
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

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"database":  "memory",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory stats cache statistics (active keys, expired keys).
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
