package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Dosada05/matchday-engine/repositories"
)

const DefaultMaxAttempts = 5

// retryConflicts runs op until it succeeds, fails with a non-transient error, or
// maxAttempts runs have hit a transient store conflict. Each run must open its own transaction.
func retryConflicts[T any](ctx context.Context, logger *slog.Logger, maxAttempts int, opName string, op func() (T, error)) (T, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 400 * time.Millisecond

	attempts := 0
	result, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		v, err := op()
		if err != nil && !repositories.IsTransient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debug("retrying after store conflict",
				slog.String("operation", opName),
				slog.Int("attempt", attempts),
				slog.Duration("backoff", next),
				slog.Any("error", err))
		}),
	)
	if err != nil && repositories.IsTransient(err) {
		return result, fmt.Errorf("%w: %s gave up after %d attempts: %w", ErrConcurrencyConflict, opName, attempts, err)
	}
	return result, err
}
