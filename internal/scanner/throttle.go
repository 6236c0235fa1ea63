package scanner

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle caps the request rate shared by all workers at a fixed number of
// requests per second. A nil Throttle, or one built with a non-positive
// rate, never waits.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle returns a fixed-rate throttle. rps <= 0 disables it.
func NewThrottle(rps float64) *Throttle {
	if rps <= 0 {
		return &Throttle{}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Enabled reports whether Wait can block.
func (t *Throttle) Enabled() bool {
	return t != nil && t.limiter != nil
}

// Wait blocks until the next request may be sent.
func (t *Throttle) Wait(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}
	return t.limiter.Wait(ctx)
}
