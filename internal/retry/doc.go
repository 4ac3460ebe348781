// Package retry provides automatic retry logic with exponential backoff
// for transient API failures.
//
//	executor := retry.NewExecutor(retry.NewHTTPErrorClassifier(), retry.NewExponentialBackoff(3))
//	resp, err := retry.Do(ctx, executor, func(ctx context.Context) (*http.Response, error) {
//	    return client.Do(req.WithContext(ctx))
//	})
//
// The ErrorClassifier decides which errors are retryable; HTTPErrorClassifier
// treats throttling, gateway errors and connection-level failures as transient.
// The BackoffStrategy controls timing; ExponentialBackoff doubles the delay per
// attempt up to a cap, with jitter. A StatusError carrying a Retry-After wait
// stretches the delay to at least that long.
//
// Executor instances are safe for concurrent use.
package retry
