package provider

import (
	"context"

	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

// HistorySource defines the interface for daily bar history providers
type HistorySource interface {
	// Name returns the provider name
	Name() string

	// GetDailyBars fetches daily OHLCV bars covering the trailing
	// calendar window, ordered most-recent-first (index 0 = latest
	// trading day). Volume is normalized to lots.
	GetDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error)
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
