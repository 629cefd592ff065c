package notifier

import (
	"context"
	"fmt"
	"time"

	"GoldSentinel/internal/retry"

	"go.uber.org/zap"
)

// Notifier delivers a message over one channel.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
	Name() string
}

// Deliver sends through n, retrying transient failures with exponential backoff.
func Deliver(ctx context.Context, n Notifier, subject, body string, policy retry.Policy, lg *zap.Logger) error {
	attempt := 0
	err := retry.Do(ctx, policy, func() error {
		attempt++
		return n.Send(ctx, subject, body)
	}, func(err error, wait time.Duration) {
		lg.Warn("delivery failed, retrying",
			zap.String("channel", n.Name()), zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("deliver via %s after %d attempts: %w", n.Name(), attempt, err)
	}
	return nil
}
