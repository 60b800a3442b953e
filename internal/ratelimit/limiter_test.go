package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	limiter := NewLimiter("eodhd", 60) // 60 per minute = 1 per second

	assert.Equal(t, "eodhd", limiter.Name())

	// First few requests should be allowed immediately (burst)
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(), "request %d should have been allowed", i)
	}
}

func TestLimiterWait(t *testing.T) {
	limiter := NewLimiter("eodhd", 120) // 2 per second

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err := limiter.Wait(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "first wait should not block")
}

func TestLimiterBackoff(t *testing.T) {
	limiter := NewLimiter("eodhd", 60)

	initial := limiter.GetBackoff()

	limiter.SignalRateLimited()
	after1 := limiter.GetBackoff()
	assert.Greater(t, after1, initial, "backoff should increase after rate limit signal")

	limiter.SignalRateLimited()
	after2 := limiter.GetBackoff()
	assert.Greater(t, after2, after1, "backoff should continue to increase")

	limiter.ResetBackoff()
	assert.Equal(t, initial, limiter.GetBackoff(), "backoff should reset to initial value")
}

func TestLimiterContextCancellation(t *testing.T) {
	limiter := NewLimiter("eodhd", 1) // Very slow rate

	// Exhaust the burst
	for i := 0; i < 5; i++ {
		limiter.Allow()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	assert.Error(t, err, "wait on cancelled context should fail")
}
