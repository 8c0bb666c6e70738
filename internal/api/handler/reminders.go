package handler

import (
	"net/http"

	"github.com/mapleleafu/water/internal/api/request"
	"github.com/mapleleafu/water/internal/api/respond"
	"github.com/mapleleafu/water/internal/auth"
	"github.com/mapleleafu/water/internal/notifications"
)

type reminderResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	notifications.Result
}

// TriggerReminders runs a dispatch pass honoring quiet hours.
// @Summary Trigger reminders
// @Description Called by an external scheduler. Requires Authorization: Bearer CRON_SECRET.
// @Tags reminders
// @Produce json
// @Security CronBearer
// @Success 200 {object} handler.reminderResponse
// @Failure 401 {object} respond.ErrorResponse
// @Router /trigger-reminders [get]
func (h *Handler) TriggerReminders(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, false)
}

// ForceReminders runs a dispatch pass that ignores quiet hours. Muted
// subscriptions are still skipped.
// @Summary Force reminders
// @Tags reminders
// @Produce json
// @Security CronBearer
// @Success 200 {object} handler.reminderResponse
// @Failure 401 {object} respond.ErrorResponse
// @Router /force-reminders [get]
func (h *Handler) ForceReminders(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, true)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, force bool) {
	res, err := h.dispatcher.Dispatch(r.Context(), force)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, reminderResponse{
		Success: true,
		Count:   res.Considered,
		Result:  res,
	})
}

// ValidateAppSecret lets a client check its app secret before storing it.
// @Summary Validate app secret
// @Tags auth
// @Accept json
// @Produce json
// @Param body body request.ValidateAppSecret true "Secret"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} respond.ErrorResponse
// @Router /validate-app-secret [post]
func (h *Handler) ValidateAppSecret(w http.ResponseWriter, r *http.Request) {
	var body request.ValidateAppSecret
	if err := request.Decode(r, &body); err != nil {
		h.writeErr(w, r, err)
		return
	}
	switch err := auth.Check(body.Secret, h.cfg.AppSecret); err {
	case nil:
		respond.WriteJSONObject(w, http.StatusOK, map[string]bool{"valid": true})
	case auth.ErrNotConfigured:
		respond.WriteError(w, http.StatusUnauthorized, respond.CodeUnauthorized,
			"App secret is not configured on server")
	default:
		respond.WriteError(w, http.StatusUnauthorized, respond.CodeUnauthorized, "Invalid app secret")
	}
}

// VAPIDPublicKey returns the key browsers need to create a push subscription.
// @Summary VAPID public key
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} respond.ErrorResponse
// @Router /vapid-public-key [get]
func (h *Handler) VAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	if h.cfg.VAPIDPublicKey == "" {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "Push is not configured")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]string{"publicKey": h.cfg.VAPIDPublicKey})
}
