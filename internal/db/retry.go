package db

import (
	"context"
	"errors"
	"time"

	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/dberrors"
	"github.com/vemac/institute/internal/pkg/logger"
)

// RetryPolicy bounds how often a conflicting write is attempted again.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 25 * time.Millisecond}

// RetryOnConflict runs fn until it succeeds, returns an error that is not a retryable conflict,
// or the policy runs out of attempts. The wait between attempts grows linearly.
// A unique violation that outlasts every attempt is returned as a conflict error with the
// database error joined as its cause. Serialization failures and deadlocks are returned as is.
func RetryOnConflict(ctx context.Context, policy RetryPolicy, op string, fn func(ctx context.Context) error) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	var err error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !dberrors.IsRetryableConflict(err) {
			return err
		}
		if attempt == policy.Attempts {
			break
		}

		logger.Ctx(ctx).Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("Write conflict, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(policy.Backoff * time.Duration(attempt)):
		}
	}

	logger.Ctx(ctx).Warn().Err(err).Str("op", op).Int("attempts", policy.Attempts).Msg("Write conflict persisted after retries")
	if dberrors.IsDuplicateKeyError(err) {
		return errors.Join(apperrors.NewConflictError("The record was changed by another request; try again"), err)
	}
	return err
}
