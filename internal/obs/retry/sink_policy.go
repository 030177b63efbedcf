package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultSinkPolicy keeps result delivery short: a probe run must end well
// within the supervisor's own check timeout.
func DefaultSinkPolicy(log *zap.Logger) Policy {
	return Policy{
		Attempts: 3,
		Backoff:  ExpoJitter{Base: 100 * time.Millisecond, Max: time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Debug("sink retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Warn("sink retries exhausted", zap.Error(err))
			}
		},
	}
}
