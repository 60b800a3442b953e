package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/AdamHarish25/SentinelTrade/internal/ratelimit"
	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

const (
	defaultBaseURL = "https://eodhd.com/api"
	defaultTimeout = 30 * time.Second
)

// EODHDSource fetches end-of-day history from the EODHD API.
type EODHDSource struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// EODHDOption configures the source
type EODHDOption func(*EODHDSource)

// WithBaseURL sets the base URL (used by tests to point at a stub server)
func WithBaseURL(baseURL string) EODHDOption {
	return func(s *EODHDSource) {
		s.baseURL = baseURL
	}
}

// WithRateLimit sets the request budget per minute
func WithRateLimit(perMinute int) EODHDOption {
	return func(s *EODHDSource) {
		s.limiter = ratelimit.NewLimiter("eodhd", perMinute)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) EODHDOption {
	return func(s *EODHDSource) {
		s.client.Timeout = timeout
	}
}

// NewEODHDSource creates a new EODHD history source
func NewEODHDSource(token string, opts ...EODHDOption) *EODHDSource {
	s := &EODHDSource{
		baseURL: defaultBaseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		limiter: ratelimit.NewLimiter("eodhd", 60),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the provider name
func (s *EODHDSource) Name() string {
	return "eodhd"
}

// eodBarResponse represents one row of the EODHD end-of-day response.
// Volume arrives in raw shares.
type eodBarResponse struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// GetDailyBars fetches the trailing window of daily bars for a symbol,
// normalized to the canonical Bar shape: volume rescaled to lots,
// sorted descending by date.
func (s *EODHDSource) GetDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	now := time.Now()
	params := url.Values{}
	params.Set("api_token", s.token)
	params.Set("fmt", "json")
	params.Set("period", "d")
	params.Set("order", "d") // descending, most recent first
	params.Set("from", now.AddDate(0, 0, -days).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))

	reqURL := fmt.Sprintf("%s/eod/%s?%s", s.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		s.limiter.SignalRateLimited()
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{
			Provider:  s.Name(),
			Err:       fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
			Retryable: false,
		}
	}

	s.limiter.ResetBackoff()

	var rows []eodBarResponse
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("decoding response: %w", err), Retryable: false}
	}

	if len(rows) == 0 {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("no data returned"), Retryable: false}
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		if row.Close <= 0 {
			continue
		}

		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}

		adjClose := row.AdjustedClose
		if adjClose == 0 {
			adjClose = row.Close
		}

		bars = append(bars, model.Bar{
			Date:     date,
			Open:     row.Open,
			High:     row.High,
			Low:      row.Low,
			Close:    row.Close,
			AdjClose: adjClose,
			Volume:   int64(math.Round(float64(row.Volume) / 100)), // shares to lots
		})
	}

	if len(bars) == 0 {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("no usable rows"), Retryable: false}
	}

	// The API is asked for descending order, but enforce it anyway
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.After(bars[j].Date)
	})

	return bars, nil
}
