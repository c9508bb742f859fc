package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-geonotify/internal/domain"
	"github.com/go-geonotify/internal/pkg/validate"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Error messages returned to clients.
const (
	msgCampaignNotFound = "Campaign not found"
	msgUserNotFound     = "User not found"
	msgForbidden        = "Forbidden"
	msgDatabaseError    = "Database Error"
	msgSendError        = "Error Sending Notifications"
	msgInvalidBody      = "invalid request body"
	msgInvalidID        = "invalid id"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type CampaignEnvelope struct {
	Campaign *domain.Campaign `json:"campaign"`
}

type UserEnvelope struct {
	User *domain.User `json:"user"`
}

// TargetsEnvelope wraps the recipients of a notify call.
type TargetsEnvelope struct {
	Users   []domain.Target `json:"users"`
	BatchID string          `json:"batch_id,omitempty"`
}

type DeliveriesEnvelope struct {
	Deliveries []domain.Delivery `json:"deliveries"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a service error to a status code. notFound is the message
// sent for domain.ErrNotFound. Causes of 500s are logged, never returned.
func httpError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, validate.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, msgForbidden)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrDispatch):
		slog.ErrorContext(r.Context(), "notify", "err", err)
		writeError(w, http.StatusInternalServerError, msgSendError)
	default:
		slog.ErrorContext(r.Context(), "store", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}
