package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireSecretMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "matching secret passes through",
			secret:     "editor-secret",
			header:     "editor-secret",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "wrong secret is rejected",
			secret:     "editor-secret",
			header:     "guess",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header is rejected",
			secret:     "editor-secret",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unconfigured secret disables the surface",
			secret:     "",
			header:     "",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unconfigured secret rejects even an empty match",
			secret:     "",
			header:     "anything",
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := requireSecretMiddleware(tt.secret)(next)

			req := httptest.NewRequest(http.MethodPost, "/api/curation/hide", nil)
			if tt.header != "" {
				req.Header.Set(SecretHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if !tt.wantNext {
				assert.Contains(t, rec.Body.String(), "error")
			}
		})
	}
}
