package handler

import (
	"net/http"

	"github.com/mapleleafu/water/internal/api/request"
	"github.com/mapleleafu/water/internal/api/respond"
)

// ListUsers returns every subscriber, oldest first.
// @Summary List users
// @Tags users
// @Produce json
// @Security ApiKey
// @Success 200 {array} store.Subscriber
// @Failure 401 {object} respond.ErrorResponse
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListSubscribers(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, users)
}

// CreateUser registers a subscriber under a unique name.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKey
// @Param body body request.CreateUser true "New user"
// @Success 201 {object} store.Subscriber
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body request.CreateUser
	if err := request.Decode(r, &body); err != nil {
		h.writeErr(w, r, err)
		return
	}
	user, err := h.store.CreateSubscriber(r.Context(), body.Name)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.logger.Info("User created", "user_id", user.ID, "name", user.Name)
	respond.WriteJSONObject(w, http.StatusCreated, user)
}
