package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamHarish25/SentinelTrade/internal/fundamental"
	"github.com/AdamHarish25/SentinelTrade/internal/market"
	"github.com/AdamHarish25/SentinelTrade/internal/provider"
	"github.com/AdamHarish25/SentinelTrade/internal/scanner"
	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	catalog, err := fundamental.NewCatalog()
	require.NoError(t, err)

	synthetic := provider.NewSyntheticSource(42)
	source := provider.NewFallbackSource(nil, synthetic, true, nil)
	sc := scanner.NewScanner(source, 4, 45, 30*time.Second, nil)
	agg := market.NewAggregator(catalog, sc, fundamental.DefaultFilter(), 5, nil)

	return NewServer(agg, catalog, nil)
}

func TestHandleMarketData(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/market/data?symbols=bbca,TLKM.JK", nil)
	rec := httptest.NewRecorder()
	s.handleMarketData(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snapshot model.MarketSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))

	assert.NotEmpty(t, snapshot.ScanID)
	require.Len(t, snapshot.Watchlist, 2)

	// Lowercase and bare symbols normalize to the .JK form
	symbols := map[string]bool{}
	for _, item := range snapshot.Watchlist {
		symbols[item.Symbol] = true
	}
	assert.True(t, symbols["BBCA"])
	assert.True(t, symbols["TLKM"])
}

func TestHandleMarketDataDefaultUniverse(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/market/data", nil)
	rec := httptest.NewRecorder()
	s.handleMarketData(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot model.MarketSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 26, snapshot.AuditTrail.UniverseSize)
	assert.Len(t, snapshot.Watchlist, 5, "capped by universe limit")
}

func TestHandleMarketDataMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/market/data", nil)
	rec := httptest.NewRecorder()
	s.handleMarketData(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleFundamentals(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/fundamentals", nil)
	rec := httptest.NewRecorder()
	s.handleFundamentals(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp fundamentalsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Companies, 26)
	assert.Equal(t, 26, resp.Metrics.Total)
	assert.Equal(t, 20, resp.Metrics.Passed)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := corsMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Preflight short-circuits before the inner handler
	req = httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
