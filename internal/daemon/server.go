package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"go.uber.org/zap"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/casestudy"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/config"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/dispatcher"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm/configbuilder"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/observability"
	genrpc "github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc/generate"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server hosts the demo UI, the generation RPC endpoints, and the
// health/metrics plumbing.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	runner  genrpc.Runner
	metrics *observability.Metrics
	catalog *casestudy.Catalog
	ui      http.Handler
}

// NewServer constructs a daemon instance.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	catalog := casestudy.Builtin()
	if cfg.Cases.Path != "" {
		loaded, err := casestudy.LoadCatalog(cfg.Cases.Path)
		if err != nil {
			return nil, fmt.Errorf("load case catalog: %w", err)
		}
		catalog = loaded
	}

	registry, err := configbuilder.BuildRegistry(cfg, catalog)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	metrics := observability.NewMetrics()
	disp := dispatcher.New(registry, cfg.Dispatch, logger, metrics)
	runner := &genrpc.DispatchRunner{
		Dispatcher:    disp,
		Catalog:       catalog,
		DefaultBudget: cfg.Dispatch.DefaultBudget,
		Logger:        logger,
	}

	ui, err := web.NewHandler(catalog, cfg.Dispatch.DefaultBudget, cfg.Dispatch.MaxBudgetTokens, logger)
	if err != nil {
		return nil, fmt.Errorf("build web handler: %w", err)
	}

	return &Server{cfg: cfg, logger: logger, runner: runner, metrics: metrics, catalog: catalog, ui: ui}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting thinksim daemon", zap.String("addr", s.cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down thinksim daemon")
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.ui)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/metrics", s.metricsHandler)
	mux.HandleFunc("/api/cases", s.casesHandler)
	mux.Handle("/api/generate", genrpc.UnaryHandler{Runner: s.runner, Metrics: s.metrics})
	mux.Handle("/api/generate/stream", genrpc.StreamHandler{Runner: s.runner, Metrics: s.metrics})

	transport := strings.ToLower(strings.TrimSpace(s.cfg.Server.Transport))
	if transport != "ndjson" {
		path, handler := genrpc.NewConnectHandler(s.runner, s.metrics)
		mux.Handle(path, handler)
		return h2c.NewHandler(mux, &http2.Server{})
	}

	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Server.MetricsEnabled {
		http.NotFound(w, r)
		return
	}

	promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

type caseSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Prompt      string `json:"prompt"`
	Budgets     []int  `json:"suggested_budgets"`
}

func (s *Server) casesHandler(w http.ResponseWriter, r *http.Request) {
	summaries := make([]caseSummary, 0, s.catalog.Len())
	for _, name := range s.catalog.Names() {
		cs, _ := s.catalog.Get(name)
		summaries = append(summaries, caseSummary{
			Name:        cs.Name,
			Description: cs.Description,
			Prompt:      cs.Prompt,
			Budgets:     cs.SuggestedBudgets(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		s.logger.Warn("encode cases", zap.Error(err))
	}
}
