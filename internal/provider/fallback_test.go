package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

// stubSource returns canned bars or a canned error.
type stubSource struct {
	bars []model.Bar
	err  error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) GetDailyBars(context.Context, string, int) ([]model.Bar, error) {
	return s.bars, s.err
}

func liveBars() []model.Bar {
	return []model.Bar{{
		Date:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Open:   100,
		High:   101,
		Low:    99,
		Close:  100.5,
		Volume: 1234,
	}}
}

func TestFallbackPrefersLive(t *testing.T) {
	live := &stubSource{bars: liveBars()}
	f := NewFallbackSource(live, NewSyntheticSource(42), false, nil)

	bars, source := f.Fetch(context.Background(), "BBCA.JK", 45)
	assert.Equal(t, model.SourceLive, source)
	assert.Equal(t, liveBars(), bars)
}

func TestFallbackOnLiveError(t *testing.T) {
	live := &stubSource{err: errors.New("boom")}
	f := NewFallbackSource(live, NewSyntheticSource(42), false, nil)

	bars, source := f.Fetch(context.Background(), "BBCA.JK", 45)
	assert.Equal(t, model.SourceMock, source)
	require.NotEmpty(t, bars)
}

func TestFallbackOnEmptyLiveResponse(t *testing.T) {
	live := &stubSource{bars: []model.Bar{}}
	f := NewFallbackSource(live, NewSyntheticSource(42), false, nil)

	bars, source := f.Fetch(context.Background(), "BBCA.JK", 45)
	assert.Equal(t, model.SourceMock, source)
	require.NotEmpty(t, bars)
}

func TestFallbackForceMockSkipsLive(t *testing.T) {
	live := &stubSource{bars: liveBars()}
	f := NewFallbackSource(live, NewSyntheticSource(42), true, nil)

	_, source := f.Fetch(context.Background(), "BBCA.JK", 45)
	assert.Equal(t, model.SourceMock, source)
}

func TestFallbackWithoutLiveSource(t *testing.T) {
	f := NewFallbackSource(nil, NewSyntheticSource(42), false, nil)

	bars, source := f.Fetch(context.Background(), "BBCA.JK", 45)
	assert.Equal(t, model.SourceMock, source)
	require.NotEmpty(t, bars)
}
