package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestPrivateSubnetOnly(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       int
	}{
		{"loopback", "127.0.0.1:5555", "", http.StatusOK},
		{"lan", "192.168.1.20:5555", "", http.StatusOK},
		{"ipv6 ula", "[fd00::1]:5555", "", http.StatusOK},
		{"ipv4 mapped", "[::ffff:10.0.0.7]:5555", "", http.StatusOK},
		{"public", "8.8.8.8:5555", "", http.StatusForbidden},
		{"public behind local proxy", "127.0.0.1:5555", "8.8.8.8, 10.0.0.1", http.StatusForbidden},
		{"lan behind local proxy", "127.0.0.1:5555", "10.0.0.9", http.StatusOK},
		{"spoofed header from public peer", "8.8.8.8:5555", "10.0.0.1", http.StatusForbidden},
	}

	h := PrivateSubnetOnly(okHandler)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestJSONContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        int
	}{
		{"application/json", http.StatusOK},
		{"application/json; charset=utf-8", http.StatusOK},
		{"multipart/form-data; boundary=xyz", http.StatusOK},
		{"", http.StatusOK},
		{"text/plain", http.StatusBadRequest},
		{"application/x-www-form-urlencoded", http.StatusBadRequest},
	}

	h := JSONContentType(okHandler)
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader("{}"))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, tt.contentType)
	}
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/links/batch", nil)
	rec := httptest.NewRecorder()
	CORS(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	Recovery(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"internal_error"`)
}

func TestRouter_PrivateSubnetsOnly(t *testing.T) {
	env := newTestEnv(t, func(o *RouterOptions) { o.PrivateSubnetsOnly = true })

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, ErrCodeForbidden, errorCode(t, rec))
}
