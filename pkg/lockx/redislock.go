package lockx

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
)

// ErrNotObtained is returned when the key stays locked past the retry budget
var ErrNotObtained = redislock.ErrNotObtained

// NewRedis returns a Locker shared by every process using the same redis,
// retrying every interval until ctx ends.
func NewRedis(client redis.UniversalClient, interval time.Duration) Locker {
	return &redisLocker{
		client:   redislock.New(client),
		interval: interval,
	}
}

type redisLocker struct {
	client   *redislock.Client
	interval time.Duration
}

func (r *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	lock, err := r.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(r.interval),
	})
	if err != nil {
		return nil, err
	}
	return &redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (l *redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if err == redislock.ErrLockNotHeld {
		// expired, someone else may own it now
		return nil
	}
	return err
}
