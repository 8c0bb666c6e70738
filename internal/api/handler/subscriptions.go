package handler

import (
	"net/http"
	"time"

	"github.com/mapleleafu/water/internal/api/request"
	"github.com/mapleleafu/water/internal/api/respond"
	"github.com/mapleleafu/water/internal/cache"
	"github.com/mapleleafu/water/internal/store"
)

// Subscribe registers or refreshes a device's push subscription. The
// endpoint is the natural key, so re-subscribing updates in place.
// @Summary Upsert push subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security ApiKey
// @Param body body request.Subscribe true "Push subscription"
// @Success 200 {object} store.Subscription
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /subscribe [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var body request.Subscribe
	if err := request.Decode(r, &body); err != nil {
		h.writeErr(w, r, err)
		return
	}
	sub, err := h.store.UpsertSubscriptionByEndpoint(r.Context(), body.Upsert())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.logger.Info("Subscription saved",
		"subscription_id", sub.ID, "user_id", sub.UserID, "timezone", sub.Timezone)
	respond.WriteJSONObject(w, http.StatusOK, sub)
}

type muteResponse struct {
	MutedUntil time.Time `json:"mutedUntil"`
}

// Mute suppresses reminders on all of a user's devices for a number of hours.
// @Summary Mute reminders
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security ApiKey
// @Param body body request.Mute true "Mute duration"
// @Success 200 {object} handler.muteResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /mute [post]
func (h *Handler) Mute(w http.ResponseWriter, r *http.Request) {
	var body request.Mute
	if err := request.Decode(r, &body); err != nil {
		h.writeErr(w, r, err)
		return
	}
	until := body.Until(h.now()).UTC()
	n, err := h.store.UpdateSubscriptionsForOwner(r.Context(), body.UserID,
		store.SubscriptionUpdate{MutedUntil: &until})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.logger.Info("Reminders muted", "user_id", body.UserID, "until", until, "subscriptions", n)
	respond.WriteJSONObject(w, http.StatusOK, muteResponse{MutedUntil: until})
}

// Preferences sets the quiet-hours window on all of a user's devices.
// @Summary Update quiet hours
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security ApiKey
// @Param body body request.Preferences true "Quiet hours"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /preferences [post]
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	var body request.Preferences
	if err := request.Decode(r, &body); err != nil {
		h.writeErr(w, r, err)
		return
	}
	n, err := h.store.UpdateSubscriptionsForOwner(r.Context(), body.UserID,
		store.SubscriptionUpdate{QuietStart: body.QuietStart, QuietEnd: body.QuietEnd})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	// Preferences show up in cached stats.
	h.cache.DeletePrefix(cache.StatsPrefix(body.UserID))
	h.logger.Info("Quiet hours updated", "user_id", body.UserID,
		"quiet_start", *body.QuietStart, "quiet_end", *body.QuietEnd, "subscriptions", n)
	respond.WriteJSONObject(w, http.StatusOK, map[string]bool{"success": true})
}
