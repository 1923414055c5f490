// Package api exposes container parsing over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/ssargent/logan/pkg/logan"
	"github.com/ssargent/logan/pkg/metrics"
	"github.com/ssargent/logan/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

// Server handles report requests
type Server struct {
	parser  *logan.Parser
	config  ServerConfig
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewServer creates a server. m may be nil.
func NewServer(parser *logan.Parser, config ServerConfig, m *metrics.Metrics, logger zerolog.Logger) *Server {
	return &Server{parser: parser, config: config, metrics: m, logger: logger}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(observability.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if len(s.config.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-API-Key", "X-Filename"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Prometheus metrics endpoint (unprotected for scraping)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware(s.config.APIKey, s.metrics))
			r.Post("/reports", s.metrics.InstrumentHandler("POST", "/api/v1/reports", s.handleCreateReport))
		})
	})

	r.Get("/swagger/doc.json", s.handleSwaggerDoc)

	return r
}

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate swagger doc")
		http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	SwaggerInfo.Host = addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("starting report server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("shutting down report server")
		return srv.Shutdown(shutdownCtx)
	}
}
