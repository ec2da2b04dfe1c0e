package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alumni/internal/alumni"
	"alumni/internal/config"
	"alumni/internal/metrics"
	"alumni/internal/store"
)

func testRouter(t *testing.T, d deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.App{RateLimitPerMin: 0, MaxBodyBytes: 1 << 20}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := alumni.NewService(alumni.NewMemoryRepository(), nil, nil, nil)
	return newRouter(cfg, zap.NewNop(), svc, m, reg, d.health)
}

func TestHealthz(t *testing.T) {
	r := testRouter(t, deps{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthzReportsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := store.NewRedis(mr.Addr())
	defer rdb.Close()

	r := testRouter(t, deps{redis: rdb})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","redis":true}`, w.Body.String())

	mr.Close()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)
}

func TestRouterMiddleware(t *testing.T) {
	r := testRouter(t, deps{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/alumni", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/alumni", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "alumni_http_request_duration_seconds"))
}
