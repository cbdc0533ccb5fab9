package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. studyforge ships with MaxAttempts 1, which makes it a pass-through.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg}
}

type failureClass int

const (
	failFatal     failureClass = iota // give up immediately
	failTransient                     // retry until attempts run out
	failMalformed                     // retry once; a second bad payload is final
)

func classify(err error) failureClass {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return failFatal
	case errors.Is(err, ErrNotConfigured):
		return failFatal
	case errors.As(err, &maxTok):
		return failFatal
	case errors.As(err, &invalid):
		return failMalformed
	default:
		// Rate limits, outages and network errors.
		return failTransient
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	malformedSeen := false

	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case failFatal:
			return nil, err
		case failMalformed:
			if malformedSeen {
				return nil, err
			}
			malformedSeen = true
		}

		if attempt+1 >= r.config.MaxAttempts {
			return nil, err
		}

		timer := time.NewTimer(r.backoff(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before the next attempt. A rate limit with a
// Retry-After hint wins over the computed delay.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := math.Min(
		float64(r.config.InitialWait)*math.Pow(r.config.Multiplier, float64(attempt)),
		float64(r.config.MaxWait),
	)
	wait *= 0.8 + 0.4*rand.Float64() // ±20%
	return time.Duration(math.Max(wait, 0))
}
