// Copyright (c) 2025, The cirg Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"requestId": RequestID(r.Context())})
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := NewConfig()
	cfg.RateLimit = 1000
	cfg.RateLimitBurst = 1000
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

func serve(s *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewConfig(t *testing.T) {
	t.Setenv("PORT", "9191")
	cfg := NewConfig()
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, ":9191", cfg.Addr())
	assert.Positive(t, float64(cfg.RateLimit))
	assert.Positive(t, cfg.WriteTimeout)

	t.Setenv("PORT", "not-a-port")
	assert.Equal(t, 8080, NewConfig().Port)
}

func TestOptions(t *testing.T) {
	s := New(WithName("cirg"), WithVersion("1.2.3"), WithHandler("/x", okHandler))
	assert.Equal(t, "cirg", s.config.Name)
	assert.Equal(t, "1.2.3", s.config.Version)
	assert.Contains(t, s.config.Handlers, "/x")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)

	rec = serve(s, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReady(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = serve(s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, WithHandler("/v1/test", okHandler))
	serve(s, http.MethodGet, "/v1/test", nil)

	rec := serve(s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cirg_http_requests_total")
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, WithHandler("/v1/test", okHandler))

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"generated", "", false},
		{"kept", "550e8400-e29b-41d4-a716-446655440000", true},
		{"invalid replaced", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodGet, "/v1/test", map[string]string{"X-Request-Id": tt.header})
			got := rec.Header().Get("X-Request-Id")
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			if tt.keep {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
			}
			assert.Contains(t, rec.Body.String(), got)
		})
	}
}

func TestVersionNegotiation(t *testing.T) {
	tests := []struct {
		accept string
		want   string
	}{
		{"", "v1"},
		{"application/json", "v1"},
		{"application/vnd.cirg.v1+json", "v1"},
		{"text/html, application/vnd.cirg.v1+json;q=0.9", "v1"},
		{"application/vnd.cirg.v9+json", "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept", tt.accept)
			assert.Equal(t, tt.want, negotiateAPIVersion(req))
		})
	}

	s := newTestServer(t, WithHandler("/v1/test", okHandler))
	rec := serve(s, http.MethodGet, "/v1/test", nil)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
}

func TestRateLimit(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 0.001
	cfg.RateLimitBurst = 1
	s := New(WithConfig(cfg), WithHandler("/v1/test", okHandler))

	rec := serve(s, http.MethodGet, "/v1/test", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))

	rec = serve(s, http.MethodGet, "/v1/test", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeRateLimitExceeded, resp.Code)
	assert.True(t, resp.Retryable)
	assert.Equal(t, rec.Header().Get("X-Request-Id"), resp.RequestID)
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t, WithHandler("/v1/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(s, http.MethodGet, "/v1/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeInternalError, resp.Code)
}

func TestWriteError_NoRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(rec, req, http.StatusBadRequest, ErrCodeInvalidRequest, "bad", false,
		map[string]any{"param": "format"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad", resp.Message)
	assert.Equal(t, "format", resp.Details["param"])
	_, err := uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
}

func TestRespondJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)
	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusTeapot)
	_, err := rw.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, rw.Status())
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, rec, rw.Unwrap())
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := newTestServer(t, WithHandler("/v1/test", okHandler))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx // test
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.IsReady())
}
