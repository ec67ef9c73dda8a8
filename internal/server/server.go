// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadscout/internal/common/config"
	apperrors "leadscout/internal/common/errors"
	"leadscout/internal/common/logger"
)

// Server hosts the lead search endpoint plus the health and metrics routes.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func New(cfg *config.Config, handler *Handler, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/leads/search", withRecovery(handler.HandleSearch, log))
	mux.HandleFunc("/health", healthHandler("healthy"))
	mux.HandleFunc("/ready", healthHandler("ready"))
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      mux,
			ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// withRecovery guarantees the handler never lets a panic escape as a
// non-JSON response: any panic becomes a 500 with the uniform error body.
func withRecovery(next http.HandlerFunc, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered in handler", map[string]interface{}{
					"panic": fmt.Sprintf("%v", rec),
					"path":  r.URL.Path,
				})
				writeError(w, apperrors.NewInternalError(fmt.Errorf("%v", rec)))
			}
		}()
		next(w, r)
	}
}

func healthHandler(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
