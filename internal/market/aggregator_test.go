package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamHarish25/SentinelTrade/internal/fundamental"
	"github.com/AdamHarish25/SentinelTrade/internal/provider"
	"github.com/AdamHarish25/SentinelTrade/internal/scanner"
	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

func newTestAggregator(t *testing.T, filter fundamental.FilterParams, universeLimit int) *Aggregator {
	t.Helper()

	catalog, err := fundamental.NewCatalog()
	require.NoError(t, err)

	synthetic := provider.NewSyntheticSource(42)
	source := provider.NewFallbackSource(nil, synthetic, true, nil)
	sc := scanner.NewScanner(source, 4, 45, 30*time.Second, nil)

	return NewAggregator(catalog, sc, filter, universeLimit, nil)
}

func TestSnapshotExplicitTickers(t *testing.T) {
	agg := newTestAggregator(t, fundamental.DefaultFilter(), 25)

	snapshot, err := agg.Snapshot(context.Background(), []string{"BBCA.JK", "UNVR.JK"})
	require.NoError(t, err)

	assert.NotEmpty(t, snapshot.ScanID)
	assert.False(t, snapshot.GeneratedAt.IsZero())
	assert.Equal(t, 2, snapshot.AuditTrail.UniverseSize)
	assert.Equal(t, 2, snapshot.AuditTrail.QualityPassed)
	require.Len(t, snapshot.Watchlist, 2)

	for _, item := range snapshot.Watchlist {
		assert.Equal(t, model.SourceMock, item.DataSource)
	}
}

func TestSnapshotMergesFundamentalContext(t *testing.T) {
	agg := newTestAggregator(t, fundamental.DefaultFilter(), 25)

	snapshot, err := agg.Snapshot(context.Background(), []string{"BBCA.JK", "ZZZZ.JK"})
	require.NoError(t, err)

	bySymbol := make(map[string]model.WatchlistItem)
	for _, item := range snapshot.Watchlist {
		bySymbol[item.Symbol] = item
	}

	bbca, ok := bySymbol["BBCA"]
	require.True(t, ok)
	require.NotNil(t, bbca.Fundamental)
	assert.Equal(t, "Financials", bbca.Fundamental.Sector)
	assert.Equal(t, "Djarum", bbca.Fundamental.Conglomerate)
	assert.InDelta(t, 1200.0, bbca.Fundamental.MarketCapT, 1e-9)

	// Unknown tickers still scan (synthetic fallback) but carry no context
	zzzz, ok := bySymbol["ZZZZ"]
	require.True(t, ok)
	assert.Nil(t, zzzz.Fundamental)
}

func TestSnapshotDefaultUniverse(t *testing.T) {
	agg := newTestAggregator(t, fundamental.DefaultFilter(), 5)

	snapshot, err := agg.Snapshot(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 26, snapshot.AuditTrail.UniverseSize, "full catalog size")
	assert.Equal(t, 5, snapshot.AuditTrail.QualityPassed, "capped by universe limit")
	assert.Len(t, snapshot.Watchlist, 5)
}

func TestSnapshotTallyAndStealthConsistency(t *testing.T) {
	agg := newTestAggregator(t, fundamental.DefaultFilter(), 25)

	snapshot, err := agg.Snapshot(context.Background(), []string{"BBCA.JK", "TLKM.JK", "ADRO.JK", "GOTO.JK"})
	require.NoError(t, err)

	tally := snapshot.FlowTally
	assert.Equal(t, len(snapshot.Watchlist), tally.Accumulation+tally.Distribution+tally.Neutral)

	stealth := 0
	for _, item := range snapshot.Watchlist {
		if item.IsStealth {
			stealth++
		}
	}
	assert.Equal(t, stealth, snapshot.AuditTrail.StealthFound)

	assert.GreaterOrEqual(t, snapshot.MarketSentiment, 0)
	assert.LessOrEqual(t, snapshot.MarketSentiment, 100)
}

func TestSnapshotUsesInjectedClock(t *testing.T) {
	agg := newTestAggregator(t, fundamental.DefaultFilter(), 25)

	// Wednesday 10:00 WIB, mid-session
	open := time.Date(2026, 8, 26, 10, 0, 0, 0, JakartaLocation())
	agg.SetNowFunc(func() time.Time { return open })

	snapshot, err := agg.Snapshot(context.Background(), []string{"BBCA.JK"})
	require.NoError(t, err)
	assert.True(t, snapshot.IsExchangeOpen)
	assert.Equal(t, open, snapshot.GeneratedAt)

	agg.SetNowFunc(func() time.Time { return open.Add(26 * time.Hour) }) // Thursday noon break
	snapshot, err = agg.Snapshot(context.Background(), []string{"BBCA.JK"})
	require.NoError(t, err)
	assert.False(t, snapshot.IsExchangeOpen)
}

func TestSnapshotScanIDsAreUnique(t *testing.T) {
	agg := newTestAggregator(t, fundamental.DefaultFilter(), 25)

	first, err := agg.Snapshot(context.Background(), []string{"BBCA.JK"})
	require.NoError(t, err)
	second, err := agg.Snapshot(context.Background(), []string{"BBCA.JK"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ScanID, second.ScanID)
}
