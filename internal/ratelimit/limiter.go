package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with backoff tracking for upstream 429s.
type Limiter struct {
	limiter *rate.Limiter
	name    string
	mu      sync.Mutex
	backoff time.Duration
	maxWait time.Duration
}

// NewLimiter creates a new rate limiter.
// perMinute specifies the number of requests allowed per minute.
func NewLimiter(name string, perMinute int) *Limiter {
	rps := float64(perMinute) / 60.0
	// Allow burst of up to 5 requests or 1/10th of per-minute limit
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	if burst > 5 {
		burst = 5
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
		backoff: 100 * time.Millisecond,
		maxWait: 2 * time.Minute,
	}
}

// Wait blocks until a token is available or context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an event may happen now
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SignalRateLimited should be called when a 429 response is received.
// It applies exponential backoff.
func (l *Limiter) SignalRateLimited() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.backoff *= 2
	if l.backoff > l.maxWait {
		l.backoff = l.maxWait
	}
}

// ResetBackoff resets the backoff duration after a successful request
func (l *Limiter) ResetBackoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backoff = 100 * time.Millisecond
}

// GetBackoff returns the current backoff duration
func (l *Limiter) GetBackoff() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backoff
}

// Name returns the limiter name
func (l *Limiter) Name() string {
	return l.name
}
