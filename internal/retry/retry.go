// Package retry wraps exponential backoff for outbound calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrTooManyRequests marks a throttled response; it is always retried.
var ErrTooManyRequests = errors.New("too many requests")

// Policy bounds how often and how quickly an operation is retried.
type Policy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy is used for scrapes and deliveries.
var DefaultPolicy = Policy{MaxRetries: 2, InitialInterval: 500 * time.Millisecond, MaxInterval: 5 * time.Second}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)
}

// Do runs op until it succeeds, returns a permanent error, or the policy is exhausted.
// A context that is already done fails without calling op.
func Do(ctx context.Context, p Policy, op func() error, notify backoff.Notify) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return backoff.RetryNotify(op, p.backOff(ctx), notify)
}

// Permanent stops retrying and returns err from Do.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// StatusError classifies a non-200 response. Client errors other than 429
// are permanent; everything else may be retried.
func StatusError(msg string, code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", msg, ErrTooManyRequests)
	case code >= 400 && code < 500:
		return Permanent(fmt.Errorf("%s: status %d", msg, code))
	default:
		return fmt.Errorf("%s: status %d", msg, code)
	}
}
