package scanner

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds how often a worker re-sends a payload after a
// transport failure. It is applied by the worker loop, not the Dispatcher.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration // wait between a failed attempt and the next
}

// DefaultRetryPolicy allows three attempts spaced 100ms apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds or MaxAttempts is reached, returning the last
// error. ErrInvalidURL is not retried since resending cannot fix it.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Delay > 0 {
			timer := time.NewTimer(p.Delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
		err = fn(ctx)
		if err == nil || errors.Is(err, ErrInvalidURL) {
			return err
		}
	}
	return err
}
