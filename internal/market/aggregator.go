// Package market combines scan results with fundamental metadata into
// the snapshot the presentation layer consumes.
package market

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AdamHarish25/SentinelTrade/internal/common"
	"github.com/AdamHarish25/SentinelTrade/internal/fundamental"
	"github.com/AdamHarish25/SentinelTrade/internal/scanner"
	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

// Aggregator builds market snapshots. Stateless between calls: each
// snapshot is computed fresh, so repeated invocations are idempotent.
type Aggregator struct {
	catalog       *fundamental.Catalog
	scanner       *scanner.Scanner
	filter        fundamental.FilterParams
	universeLimit int
	logger        *common.Logger
	now           func() time.Time
}

// NewAggregator creates a market aggregator. filter gates the default
// universe; universeLimit caps how many eligible tickers one cycle scans.
func NewAggregator(catalog *fundamental.Catalog, sc *scanner.Scanner, filter fundamental.FilterParams, universeLimit int, logger *common.Logger) *Aggregator {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Aggregator{
		catalog:       catalog,
		scanner:       sc,
		filter:        filter,
		universeLimit: universeLimit,
		logger:        logger,
		now:           time.Now,
	}
}

// SetNowFunc overrides the clock, for tests.
func (a *Aggregator) SetNowFunc(now func() time.Time) {
	a.now = now
}

// Snapshot scans the given tickers and aggregates the results. An
// empty ticker list means "use the quality-filtered universe". The
// worst case output is an empty watchlist with neutral sentiment,
// never an error from data problems.
func (a *Aggregator) Snapshot(ctx context.Context, tickers []string) (*model.MarketSnapshot, error) {
	universeSize := len(tickers)
	if len(tickers) == 0 {
		universeSize = a.catalog.GetMetrics().Total
		tickers = a.catalog.EligibleTickers(a.filter)
		if a.universeLimit > 0 && len(tickers) > a.universeLimit {
			tickers = tickers[:a.universeLimit]
		}
	}

	items, err := a.scanner.Scan(ctx, tickers)
	if err != nil {
		return nil, err
	}

	var tally model.FlowTally
	stealthFound := 0
	for i := range items {
		item := &items[i]

		switch item.Flow {
		case model.FlowInflow:
			tally.Accumulation++
		case model.FlowOutflow:
			tally.Distribution++
		default:
			tally.Neutral++
		}

		if item.IsStealth {
			stealthFound++
		}

		if company, ok := a.catalog.Lookup(item.Symbol); ok {
			item.Fundamental = &model.FundamentalContext{
				Name:         company.Name,
				Sector:       company.Sector,
				SubSector:    company.SubSector,
				MarketCapT:   company.MarketCapT(),
				Conglomerate: company.Conglomerate,
			}
		}
	}

	now := a.now()
	snapshot := &model.MarketSnapshot{
		ScanID:          uuid.NewString(),
		Watchlist:       items,
		MarketSentiment: sentimentOf(items),
		FlowTally:       tally,
		AuditTrail:      model.AuditTrail{
			UniverseSize:  universeSize,
			QualityPassed: len(tickers),
			StealthFound:  stealthFound,
		},
		GeneratedAt:    now,
		IsExchangeOpen: IsExchangeOpen(now),
	}

	a.logger.Info().
		Str("scan_id", snapshot.ScanID).
		Int("scanned", len(tickers)).
		Int("results", len(items)).
		Int("stealth", stealthFound).
		Int("sentiment", snapshot.MarketSentiment).
		Msg("snapshot generated")

	return snapshot, nil
}

// sentimentOf computes the universe gauge: base 50, plus one per
// strong gainer and per inflow, minus one per decliner (two when the
// decline exceeds a percent), clamped to [0,100].
func sentimentOf(items []model.WatchlistItem) int {
	sentiment := 50
	for _, item := range items {
		switch {
		case item.ChangePercent > 1:
			sentiment++
		case item.ChangePercent < -1:
			sentiment -= 2
		case item.ChangePercent < 0:
			sentiment--
		}

		if item.Flow == model.FlowInflow {
			sentiment++
		}
	}

	if sentiment < 0 {
		sentiment = 0
	}
	if sentiment > 100 {
		sentiment = 100
	}
	return sentiment
}
