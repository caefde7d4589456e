package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket with a fixed refill rate. Construct with
// NewLimiter; the zero value has no bucket.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter returns a limiter that refills perSecond tokens up to burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow consumes a token when one is available and reports whether it did.
func (l *Limiter) Allow() bool {
	return l.bucket.AllowN(time.Now(), 1)
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.WaitN(ctx, 1)
}
