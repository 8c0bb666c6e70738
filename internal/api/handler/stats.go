package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapleleafu/water/internal/api/request"
	"github.com/mapleleafu/water/internal/api/respond"
	"github.com/mapleleafu/water/internal/cache"
)

// LogDrink records water consumed now and drops the user's cached stats.
// @Summary Log a drink
// @Tags stats
// @Accept json
// @Produce json
// @Security ApiKey
// @Param body body request.LogDrink true "Drink"
// @Success 201 {object} store.DrinkLog
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /log-drink [post]
func (h *Handler) LogDrink(w http.ResponseWriter, r *http.Request) {
	var body request.LogDrink
	if err := request.Decode(r, &body); err != nil {
		h.writeErr(w, r, err)
		return
	}
	log, err := h.store.CreateDrinkLog(r.Context(), body.UserID, body.Amount)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.cache.DeletePrefix(cache.StatsPrefix(body.UserID))
	h.logger.Debug("Drink logged", "user_id", body.UserID, "amount", body.Amount)
	respond.WriteJSONObject(w, http.StatusCreated, log)
}

// GetStats returns the hydration statistics snapshot for a user.
// @Summary Get hydration stats
// @Description Streaks, 90-day heatmap, 7-day trend, hourly totals and quiet-hour preferences. Supports ETag / If-None-Match.
// @Tags stats
// @Produce json
// @Security ApiKey
// @Param userId path string true "User ID"
// @Param goal query int false "Daily goal in ml" default(2000)
// @Success 200 {object} stats.Snapshot
// @Success 304 "Not Modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /stats/{userId} [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	goal, err := request.ParseGoal(r.URL.Query().Get("goal"), h.cfg.DefaultGoal)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	key := cache.StatsKey(userID, goal)
	ttl := h.cfg.StatsCacheTTL

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	// A drink logged while this snapshot is computed bumps the generation,
	// so the stale result is served once but never cached.
	prefix := cache.StatsPrefix(userID)
	gen := h.cache.Generation(prefix)

	snap, err := h.stats.GetStats(r.Context(), userID, goal)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	etag, _ := h.cache.SetIfCurrent(key, prefix, gen, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// GetDayDetail lists a user's drink logs for one calendar day.
// @Summary Get day detail
// @Tags stats
// @Produce json
// @Security ApiKey
// @Param userId path string true "User ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {array} stats.DayEntry
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /stats/{userId}/day/{date} [get]
func (h *Handler) GetDayDetail(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	day, err := request.ParseDate(chi.URLParam(r, "date"), h.stats.Location())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	entries, err := h.stats.GetDayDetail(r.Context(), userID, day)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, entries)
}
