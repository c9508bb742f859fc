package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-geonotify/internal/application/notify"
	"github.com/go-geonotify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockNotifySvc struct{ mock.Mock }

func (m *mockNotifySvc) Notify(ctx context.Context, req domain.NotifyRequest) (*notify.Outcome, error) {
	args := m.Called(ctx, req)
	if o, _ := args.Get(0).(*notify.Outcome); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotifySvc) ListDeliveries(ctx context.Context, batchID string, campaignID int64, adminToken string) ([]domain.Delivery, error) {
	args := m.Called(ctx, batchID, campaignID, adminToken)
	ds, _ := args.Get(0).([]domain.Delivery)
	return ds, args.Error(1)
}

func notifyBody() []byte {
	return []byte(`{"campaign":{"id":7,"admin_token":"secret"},"lng":-119,"lat":38,"distance":10000}`)
}

// --- Notify ---

func TestNotify_HappyPath(t *testing.T) {
	svc := &mockNotifySvc{}
	svc.On("Notify", mock.Anything, domain.NotifyRequest{
		Campaign: domain.CampaignRef{ID: 7, AdminToken: "secret"},
		Lng:      -119, Lat: 38, Distance: 10000,
	}).Return(&notify.Outcome{
		BatchID:    "01J0BATCH",
		Recipients: []domain.Target{{UserID: 1, Email: "a@example.com"}},
		Sent:       1,
	}, nil)

	rr := httptest.NewRecorder()
	NewNotifyHandler(svc).Notify(rr, httptest.NewRequest(http.MethodPut, "/notify", bytes.NewReader(notifyBody())))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"users":[{"id":1,"email":"a@example.com"}],"batch_id":"01J0BATCH"}`, rr.Body.String())
}

func TestNotify_EmptyList(t *testing.T) {
	svc := &mockNotifySvc{}
	svc.On("Notify", mock.Anything, mock.Anything).Return(&notify.Outcome{BatchID: "B", Recipients: []domain.Target{}}, nil)

	rr := httptest.NewRecorder()
	NewNotifyHandler(svc).Notify(rr, httptest.NewRequest(http.MethodPut, "/notify", bytes.NewReader(notifyBody())))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp TargetsEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotNil(t, resp.Users)
	assert.Empty(t, resp.Users)
}

func TestNotify_Forbidden(t *testing.T) {
	svc := &mockNotifySvc{}
	svc.On("Notify", mock.Anything, mock.Anything).Return(nil, domain.ErrUnauthorized)

	rr := httptest.NewRecorder()
	NewNotifyHandler(svc).Notify(rr, httptest.NewRequest(http.MethodPut, "/notify", bytes.NewReader(notifyBody())))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestNotify_DispatchFailure(t *testing.T) {
	svc := &mockNotifySvc{}
	svc.On("Notify", mock.Anything, mock.Anything).
		Return(&notify.Outcome{Sent: 2, Failed: 1}, fmt.Errorf("1 of 3 notifications failed: %w", domain.ErrDispatch))

	rr := httptest.NewRecorder()
	NewNotifyHandler(svc).Notify(rr, httptest.NewRequest(http.MethodPut, "/notify", bytes.NewReader(notifyBody())))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Error Sending Notifications", decodeError(t, rr))
}

// --- ListDeliveries ---

func TestListDeliveries_HappyPath(t *testing.T) {
	svc := &mockNotifySvc{}
	svc.On("ListDeliveries", mock.Anything, "B1", int64(7), "secret").Return([]domain.Delivery{
		{BatchID: "B1", UserID: 1, CampaignID: 7, Status: domain.DeliverySent},
	}, nil)
	r := withChiParam(httptest.NewRequest(http.MethodGet, "/notify/B1?campaign_id=7&admin_token=secret", nil), "batch_id", "B1")
	rr := httptest.NewRecorder()
	NewNotifyHandler(svc).ListDeliveries(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp DeliveriesEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Deliveries, 1)
	assert.Equal(t, domain.DeliverySent, resp.Deliveries[0].Status)
}

func TestListDeliveries_BadCampaignID(t *testing.T) {
	r := withChiParam(httptest.NewRequest(http.MethodGet, "/notify/B1?campaign_id=x", nil), "batch_id", "B1")
	rr := httptest.NewRecorder()
	NewNotifyHandler(&mockNotifySvc{}).ListDeliveries(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListDeliveries_Disabled(t *testing.T) {
	svc := &mockNotifySvc{}
	svc.On("ListDeliveries", mock.Anything, "B1", int64(7), "").Return(nil, domain.ErrNotFound)
	r := withChiParam(httptest.NewRequest(http.MethodGet, "/notify/B1?campaign_id=7", nil), "batch_id", "B1")
	rr := httptest.NewRecorder()
	NewNotifyHandler(svc).ListDeliveries(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
