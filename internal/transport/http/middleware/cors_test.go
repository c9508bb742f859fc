package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAllowAnyOrigin_NoOriginHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	AllowAnyOrigin([]string{"*"})(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/campaign/1", nil))

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAllowAnyOrigin_LeavesOriginRequestsAlone(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/campaign/1", nil)
	req.Header.Set("Origin", "https://map.example.org")
	rr := httptest.NewRecorder()
	AllowAnyOrigin([]string{"*"})(okHandler).ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestAllowAnyOrigin_RestrictedOrigins(t *testing.T) {
	rr := httptest.NewRecorder()
	AllowAnyOrigin([]string{"https://map.example.org"})(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
