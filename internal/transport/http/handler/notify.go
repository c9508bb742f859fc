package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-geonotify/internal/application/notify"
	"github.com/go-geonotify/internal/domain"
)

// NotifyHandler handles notification fan-out and delivery lookups.
type NotifyHandler struct {
	svc notify.Service
}

func NewNotifyHandler(svc notify.Service) *NotifyHandler { return &NotifyHandler{svc: svc} }

func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req domain.NotifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.Notify(r.Context(), req)
	if err != nil {
		httpError(w, r, err, msgCampaignNotFound)
		return
	}
	writeJSON(w, http.StatusOK, TargetsEnvelope{Users: out.Recipients, BatchID: out.BatchID})
}

func (h *NotifyHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	campaignID, err := strconv.ParseInt(q.Get("campaign_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign_id")
		return
	}
	deliveries, err := h.svc.ListDeliveries(r.Context(), chi.URLParam(r, "batch_id"), campaignID, q.Get("admin_token"))
	if err != nil {
		httpError(w, r, err, "Batch not found")
		return
	}
	writeJSON(w, http.StatusOK, DeliveriesEnvelope{Deliveries: deliveries})
}
