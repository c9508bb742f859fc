package handler

import (
	"net/http"

	"github.com/go-geonotify/internal/application/campaign"
	"github.com/go-geonotify/internal/domain"
)

// CampaignHandler handles campaign endpoints.
type CampaignHandler struct {
	svc campaign.Service
}

func NewCampaignHandler(svc campaign.Service) *CampaignHandler { return &CampaignHandler{svc: svc} }

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CampaignInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpError(w, r, err, msgCampaignNotFound)
		return
	}
	writeJSON(w, http.StatusOK, CampaignEnvelope{Campaign: c})
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), id, r.URL.Query().Get("admin_token"))
	if err != nil {
		httpError(w, r, err, msgCampaignNotFound)
		return
	}
	writeJSON(w, http.StatusOK, CampaignEnvelope{Campaign: c})
}

func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.CampaignInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.svc.Update(r.Context(), id, r.URL.Query().Get("admin_token"), in)
	if err != nil {
		httpError(w, r, err, msgCampaignNotFound)
		return
	}
	writeJSON(w, http.StatusOK, CampaignEnvelope{Campaign: c})
}
