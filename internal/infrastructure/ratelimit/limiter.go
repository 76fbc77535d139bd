package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"PolicyPal/internal/ports"
)

// DefaultRate is used when the configured rate is not positive.
const DefaultRate = 2.0

// Limiter spaces permitted calls at least 1/rate seconds apart across all callers.
type Limiter struct {
	limiter *rate.Limiter
}

var _ ports.RateLimiter = (*Limiter)(nil)

// New builds a limiter with burst 1 so no two calls share a slot.
func New(perSecond float64) *Limiter {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

// Wait blocks until the next slot or until ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// Rate reports the configured requests per second.
func (l *Limiter) Rate() float64 {
	return float64(l.limiter.Limit())
}
