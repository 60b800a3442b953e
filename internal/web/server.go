package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AdamHarish25/SentinelTrade/internal/common"
	"github.com/AdamHarish25/SentinelTrade/internal/fundamental"
	"github.com/AdamHarish25/SentinelTrade/internal/market"
)

// Server exposes the scan engine over HTTP. The JSON payloads are the
// sole contract the dashboard depends on.
type Server struct {
	aggregator *market.Aggregator
	catalog    *fundamental.Catalog
	logger     *common.Logger
	srv        *http.Server
}

// NewServer creates a new API server
func NewServer(aggregator *market.Aggregator, catalog *fundamental.Catalog, logger *common.Logger) *Server {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Server{
		aggregator: aggregator,
		catalog:    catalog,
		logger:     logger,
	}
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/market/data", s.handleMarketData)
	mux.HandleFunc("/api/fundamentals", s.handleFundamentals)
	mux.HandleFunc("/api/health", s.handleHealth)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info().Int("port", port).Msg("API server listening")

	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds CORS headers so the dashboard can call the API
// from another origin during development
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
