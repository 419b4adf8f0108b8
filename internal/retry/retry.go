// Package retry provides the shared backoff policy for transient failures
// against the generation, translation and mail backends.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds the exponential backoff applied to a retried operation.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// DefaultPolicy returns the policy used for all network calls: the delay
// doubles from half a second up to a 30 second cap, with 4 retries after
// the initial attempt.
func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		MaxRetries:      4,
	}
}

// Do runs op, retrying with exponential backoff until it succeeds, the
// retry budget is exhausted, or the context is cancelled. Wrap an error in
// Permanent to stop retrying immediately.
func Do(ctx context.Context, p Policy, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx))
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
