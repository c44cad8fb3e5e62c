package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/brandlift/partnerfit/internal/config"
	"github.com/brandlift/partnerfit/internal/model"
	"github.com/brandlift/partnerfit/internal/store"
)

// BulkAnalyzer runs a full bulk analysis request. Implemented by
// analysis.Analyzer; defined here so handlers can be tested against a stub.
type BulkAnalyzer interface {
	AnalyzeBulk(ctx context.Context, req model.BulkRequest) (*model.BulkResult, error)
}

// RunReader is the slice of the store the read-only endpoints need.
type RunReader interface {
	GetRun(ctx context.Context, runID string) (*model.AnalysisRecord, error)
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.AnalysisRecord, error)
	GetCreditBalance(ctx context.Context, userID string) (int64, error)
}

// Server is a thin wrapper over chi and the stdlib http.Server.
type Server struct {
	cfg      config.ServerConfig
	analyzer BulkAnalyzer
	runs     RunReader
	srv      *http.Server
}

// New builds the server with routes mounted.
func New(cfg config.ServerConfig, analyzer BulkAnalyzer, runs RunReader) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		runs:     runs,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg.AllowedOrigins),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analysis/bulk", s.handleBulkAnalysis)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
		r.Get("/credits/{userID}", s.handleGetBalance)
	})

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the mounted router for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run starts the server and blocks until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := time.Duration(s.cfg.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	zap.L().Info("server: shutting down", zap.Duration("timeout", timeout))
	return s.srv.Shutdown(shutdownCtx)
}

func allowedOrigins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}
