package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		handler http.HandlerFunc
		level   string
		status  float64
		bytes   float64
	}{
		{
			name: "implicit ok",
			path: "/api/profiles",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":true}`))
			},
			level:  "INFO",
			status: http.StatusOK,
			bytes:  16,
		},
		{
			name: "client error",
			path: "/api/profiles",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			level:  "INFO",
			status: http.StatusBadRequest,
		},
		{
			name: "server error",
			path: "/health",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("down"))
			},
			level:  "ERROR",
			status: http.StatusServiceUnavailable,
			bytes:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(RequestLogger(New(Config{Format: FormatJSON, Output: &buf})))
			r.Get(tt.path, tt.handler)

			req := httptest.NewRequest(http.MethodGet, tt.path+"?q=koi", nil)
			r.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "Request served", entry["msg"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, tt.status, entry["status"])
			assert.Equal(t, tt.bytes, entry["bytes"])
			assert.NotEmpty(t, entry["request_id"])
			assert.Contains(t, entry, "duration")
		})
	}
}
