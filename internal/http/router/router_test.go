package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	apphttp "kitportal/internal/http"
	"kitportal/platform/logger"
	"kitportal/platform/metrics"
)

type testConfig struct {
	metrics bool
	burst   int
}

func (c testConfig) GetHTTPAddr() string       { return ":0" }
func (c testConfig) GetCORSOrigins() []string  { return []string{"https://app.example.com"} }
func (c testConfig) GetMetricsEnabled() bool   { return c.metrics }
func (c testConfig) GetHTTPRateLimit() float64 { return 1 }
func (c testConfig) GetHTTPRateBurst() int     { return c.burst }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	ctx.Protected.GET("/secret", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}

func newEngine(cfg testConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.FetchFailed("kits")
	return New(&apphttp.App{
		Config:  cfg,
		Logger:  logger.Nop(),
		Metrics: reg,
		Modules: []apphttp.Module{pingModule{}},
	})
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	engine := newEngine(testConfig{metrics: true, burst: 10})

	tests := []struct {
		path string
		want int
	}{
		{path: "/healthz", want: http.StatusOK},
		{path: "/api/v1/ping", want: http.StatusOK},
		{path: "/api/v1/secret", want: http.StatusUnauthorized},
		{path: "/api/v1/missing", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := serve(engine, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.want, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newEngine(testConfig{metrics: true, burst: 10}), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kitportal_fetch_failures_total") {
		t.Fatalf("expected kit metrics in output")
	}

	rec = serve(newEngine(testConfig{burst: 10}), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected metrics disabled, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := serve(newEngine(testConfig{burst: 10}), req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	engine := newEngine(testConfig{burst: 1})

	first := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	second := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %d then %d", first.Code, second.Code)
	}
	if rec := serve(engine, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected health check outside the limiter, got %d", rec.Code)
	}
}
