package retry

import (
	"context"
	"errors"
	"time"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// RetryHinter is implemented by errors that carry a server-requested wait,
// such as a throttled response with a Retry-After header.
type RetryHinter interface {
	RetryDelay() time.Duration
}

// Executor repeats an API call while the classifier reports its failures as
// transient and the strategy has attempts left.
//
// Execute may be called from several goroutines. WithOnRetry returns a
// configured copy.
type Executor struct {
	classifier kmeta.ErrorClassifier
	strategy   kmeta.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor panics if classifier or strategy is nil.
func NewExecutor(classifier kmeta.ErrorClassifier, strategy kmeta.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that reports each scheduled retry to callback.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute calls operation until it succeeds, fails permanently, runs out of
// retries or ctx is done, and returns the last error. A server retry hint
// lengthens the wait but never shortens it.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	limit := e.strategy.MaxAttempts()

	for retries := 0; ; retries++ {
		err := operation(ctx)
		switch {
		case err == nil:
			return nil
		case !e.classifier.IsTransient(err):
			return err
		case limit >= 0 && retries >= limit:
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		}

		delay := e.strategy.NextDelay(retries)
		var hint RetryHinter
		if errors.As(err, &hint) && hint.RetryDelay() > delay {
			delay = hint.RetryDelay()
		}
		if e.onRetry != nil {
			e.onRetry(retries, err, delay)
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do is Execute for operations that produce a value.
func Do[T any](ctx context.Context, e *Executor, operation func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := e.Execute(ctx, func(ctx context.Context) error {
		v, err := operation(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
