package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AdamHarish25/SentinelTrade/internal/fundamental"
	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

// fundamentalsResponse pairs the joined catalog with its audit metrics
type fundamentalsResponse struct {
	Companies []model.CompanyProfile `json:"companies"`
	Metrics   fundamental.Metrics    `json:"metrics"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleMarketData runs a scan cycle and returns the market snapshot.
// Without a symbols parameter the quality-filtered universe is used;
// ?symbols=BBCA.JK,TLKM.JK scans an explicit list instead.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var tickers []string
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		for _, sym := range strings.Split(raw, ",") {
			sym = strings.ToUpper(strings.TrimSpace(sym))
			if sym == "" {
				continue
			}
			if !strings.Contains(sym, ".") {
				sym += ".JK"
			}
			tickers = append(tickers, sym)
		}
	}

	snapshot, err := s.aggregator.Snapshot(r.Context(), tickers)
	if err != nil {
		s.logger.Error().Err(err).Msg("scan cycle failed")
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// handleFundamentals returns the joined catalog and filter metrics
func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, fundamentalsResponse{
		Companies: s.catalog.All(),
		Metrics:   s.catalog.GetMetrics(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
