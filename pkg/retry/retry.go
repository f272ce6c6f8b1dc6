package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultAttempt  = 3
	defaultInterval = 200 * time.Millisecond
)

type option struct {
	attempts int
	interval time.Duration
	notify   func(err error, next time.Duration)
}

type Option func(*option)

func WithAttempt(attempt int) Option {
	return func(o *option) {
		o.attempts = attempt
	}
}

func WithInterval(interval time.Duration) Option {
	return func(o *option) {
		o.interval = interval
	}
}

// WithNotify is called after every failed attempt that will be retried
func WithNotify(notify func(err error, next time.Duration)) Option {
	return func(o *option) {
		o.notify = notify
	}
}

// Permanent stops retrying and returns err
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do runs fn until it succeeds, returns a Permanent error, attempts run out or ctx ends.
// The wait grows exponentially from the configured interval.
func Do(ctx context.Context, fn func() error, opts ...Option) error {
	o := &option{
		attempts: defaultAttempt,
		interval: defaultInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.interval
	b.MaxInterval = 30 * o.interval
	b.MaxElapsedTime = 0
	var bo backoff.BackOff = b
	if o.attempts > 0 {
		bo = backoff.WithMaxRetries(b, uint64(o.attempts-1))
	}
	bo = backoff.WithContext(bo, ctx)
	if o.notify != nil {
		return backoff.RetryNotify(fn, bo, o.notify)
	}
	return backoff.Retry(fn, bo)
}
