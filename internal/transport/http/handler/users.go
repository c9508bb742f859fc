package handler

import (
	"net/http"

	"github.com/go-geonotify/internal/application/subscription"
	"github.com/go-geonotify/internal/domain"
)

// UserHandler handles subscription endpoints. Every call but Create is
// authorized by the subscription's own token.
type UserHandler struct {
	svc subscription.Service
}

func NewUserHandler(svc subscription.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, r, err, msgCampaignNotFound)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), id, r.URL.Query().Get("token"))
	if err != nil {
		httpError(w, r, err, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		httpError(w, r, err, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

// Delete answers 200 {} whether or not the token matched.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id, r.URL.Query().Get("token")); err != nil {
		httpError(w, r, err, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
