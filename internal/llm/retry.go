package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryProvider sends a request again while it keeps failing with a
// transient ErrorKind. Waits grow exponentially up to MaxWait with ±20%
// jitter; a rate limit's RetryAfter replaces the computed wait but is
// still capped at MaxWait.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	// A schema mismatch is usually the prompt's fault, so it gets one
	// more chance only.
	invalidLeft := 1

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		kind := KindOf(err)
		if kind == KindInvalidResponse {
			if invalidLeft == 0 {
				return nil, err
			}
			invalidLeft--
		}
		if !kind.Transient() || attempt >= r.config.MaxAttempts {
			return nil, err
		}

		wait := r.backoff(attempt-1, err)
		log.Debug().
			Err(err).
			Str("purpose", PurposeFrom(ctx)).
			Str("error_kind", string(kind)).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying llm request")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	maxWait := float64(r.config.MaxWait)
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if maxWait > 0 {
			return time.Duration(math.Min(float64(rl.RetryAfter), maxWait))
		}
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if maxWait > 0 {
		wait = math.Min(wait, maxWait)
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
