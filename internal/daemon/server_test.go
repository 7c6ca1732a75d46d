package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/config"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Providers: map[string]config.ProviderConfig{
			"sim": {Type: "simulator"},
		},
		Models: map[string]config.ModelConfig{
			"offline": {Provider: "sim", Model: "offline", Default: true},
		},
		Dispatch: config.DispatchConfig{
			Candidates:      []string{"offline"},
			MaxBudgetTokens: 2048,
			DefaultBudget:   200,
		},
		Cases:  config.CasesConfig{TypingDelay: time.Millisecond},
		Server: config.ServerConfig{Addr: ":0", MetricsEnabled: true, Transport: "ndjson"},
	}

	srv, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsGatedByConfig(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.Server.MetricsEnabled = false

	rec := httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCasesEndpointListsCatalog(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cases", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Capital City Finder")
	require.Contains(t, body, "suggested_budgets")
}

func TestGenerateEndpointRunsSimulator(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"case":"Capital City Finder","token_budget":100}`)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	rec := httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp rpc.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Paris", resp.Text)
	require.Equal(t, "offline", resp.ModelUsed)
	require.Equal(t, 100, resp.TokenBudget)
}

func TestIndexRendersCatalog(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Capital City Finder")
}
