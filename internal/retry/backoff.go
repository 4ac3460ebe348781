package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// ExponentialBackoff grows the wait between API retries by a constant factor,
// capped at a maximum and spread by a symmetric jitter so that parallel entry
// updates do not hit a throttled partner in lockstep.
type ExponentialBackoff struct {
	base   time.Duration
	cap    time.Duration
	factor float64
	spread float64
	random func() float64

	attempts int // retries after the first call; negative retries until ctx ends
}

// BackoffOption configures an ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the wait before the first retry.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.base = d }
}

// WithMaxDelay caps the wait between retries.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.cap = d }
}

// WithMultiplier sets the growth factor between retries. Defaults to 2.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.factor = m }
}

// WithJitter sets the relative spread applied to each wait: 0.1 means +/- 10%.
// Zero disables jitter.
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.spread = j }
}

// WithJitterFunc replaces the random source. f must return values in [0, 1).
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.random = f }
}

// NewExponentialBackoff returns a strategy allowing attempts retries, starting
// at kmeta.DefaultRetryInitialDelay and capped at kmeta.DefaultRetryMaxDelay.
//
//	backoff := retry.NewExponentialBackoff(settings.RetryMaxAttempts,
//	    retry.WithInitialDelay(settings.RetryInitialDelay),
//	    retry.WithMaxDelay(settings.RetryMaxDelay),
//	)
func NewExponentialBackoff(attempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		base:     kmeta.DefaultRetryInitialDelay,
		cap:      kmeta.DefaultRetryMaxDelay,
		factor:   2,
		spread:   0.1,
		random:   rand.Float64,
		attempts: attempts,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay returns the wait before retry number attempt (zero-based).
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	wait := float64(b.base) * math.Pow(b.factor, float64(attempt))
	wait = math.Min(wait, float64(b.cap))

	if b.spread > 0 {
		// random() in [0,1) maps to an offset in [-spread, +spread)
		wait *= 1 + b.spread*(2*b.random()-1)
	}
	return time.Duration(math.Round(wait))
}

// MaxAttempts returns how many retries follow the first call.
func (b *ExponentialBackoff) MaxAttempts() int { return b.attempts }

// InitialDelay returns the wait before the first retry.
func (b *ExponentialBackoff) InitialDelay() time.Duration { return b.base }

// MaxDelay returns the wait cap.
func (b *ExponentialBackoff) MaxDelay() time.Duration { return b.cap }
