// Package pacing spaces out and retries calls to rate-limited services.
package pacing

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Policy describes how a collaborator paces its upstream calls.
type Policy struct {
	Rate       float64       // calls per second, 0 = unlimited
	Burst      int           // bucket size, at least 1 when Rate > 0
	BaseDelay  time.Duration // first retry delay, doubled per attempt
	MaxDelay   time.Duration // cap for a single delay, 0 = no cap
	Jitter     time.Duration // uniform random extra delay in [0, Jitter)
	MaxRetries int           // retries after the first attempt
}

// DefaultPolicy returns one call per second with up to three retries.
func DefaultPolicy() Policy {
	return Policy{
		Rate:       1,
		Burst:      1,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     time.Second,
		MaxRetries: 3,
	}
}

// Retryable marks an error as worth retrying.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Pacer applies a Policy. A Pacer is safe for concurrent use.
type Pacer struct {
	policy  Policy
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
	jitter  func(max time.Duration) time.Duration
}

// New creates a pacer for p.
func New(p Policy) *Pacer {
	limit := rate.Inf
	burst := p.Burst
	if p.Rate > 0 {
		limit = rate.Limit(p.Rate)
		if burst < 1 {
			burst = 1
		}
	}
	return &Pacer{
		policy:  p,
		limiter: rate.NewLimiter(limit, burst),
		sleep:   sleepCtx,
		jitter:  randomJitter,
	}
}

// Do waits for a rate token and runs fn, retrying retryable failures with
// exponential backoff plus jitter. The last error is returned.
func (p *Pacer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= p.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if werr := p.sleep(ctx, p.Backoff(attempt-1)); werr != nil {
				return werr
			}
		}
		if werr := p.limiter.Wait(ctx); werr != nil {
			return werr
		}
		err = fn(ctx)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

// Backoff returns the delay before retry number attempt (0-based).
func (p *Pacer) Backoff(attempt int) time.Duration {
	d := p.policy.BaseDelay
	for i := 0; i < attempt && d > 0; i++ {
		if d > math.MaxInt64/2 {
			d = math.MaxInt64
			break
		}
		d *= 2
	}
	if p.policy.MaxDelay > 0 && d > p.policy.MaxDelay {
		d = p.policy.MaxDelay
	}
	return d + p.jitter(p.policy.Jitter)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}
