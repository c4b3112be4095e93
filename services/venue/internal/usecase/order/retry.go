package order

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
)

// retrier reruns a transaction body while it loses races against
// concurrent transactions.
type retrier struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	logger      logger.Interface

	jitter func(ceiling time.Duration) time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

func newRetrier(opts *Options, log logger.Interface) *retrier {
	return &retrier{
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		maxDelay:    opts.MaxDelay,
		logger:      log,
		jitter:      fullJitter,
		sleep:       sleepContext,
	}
}

// IsConflict reports whether err means the transaction must be run again:
// a serialization failure, a deadlock or a guarded update that found its
// row already changed.
func IsConflict(err error) bool {
	return postgresql.IsSerializationFailure(err) || errors.ErrorCodeEquals(err, errors.TransactionConflictError)
}

// do runs fn until it succeeds, fails with a non-conflict error, ctx ends or
// the attempts run out.
func (r *retrier) do(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsConflict(err) {
			return err
		}

		if attempt >= r.maxAttempts {
			r.logger.WarnContext(ctx, "Transaction retries exhausted",
				logger.Field{Key: "action", Value: action},
				logger.Field{Key: "attempts", Value: attempt},
				logger.Field{Key: "error", Value: err.Error()},
			)
			return errors.TracerFromError(errors.NewErrorDetails(
				fmt.Sprintf("%s kept conflicting after %d attempts", action, attempt),
				string(errors.TransactionRetryExhausted),
				"",
			))
		}

		delay := r.jitter(r.backoff(attempt))
		r.logger.DebugContext(ctx, "Transaction conflict, retrying",
			logger.Field{Key: "action", Value: action},
			logger.Field{Key: "attempt", Value: attempt},
			logger.Field{Key: "delay", Value: delay.String()},
		)

		if err := r.sleep(ctx, delay); err != nil {
			return errors.TracerFromError(err)
		}
	}
}

// backoff returns the delay ceiling after the given failed attempt.
func (r *retrier) backoff(attempt int) time.Duration {
	delay := r.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= r.maxDelay {
			return r.maxDelay
		}
	}
	return min(delay, r.maxDelay)
}

func fullJitter(ceiling time.Duration) time.Duration {
	if ceiling <= 0 {
		return 0
	}
	return rand.N(ceiling + 1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
