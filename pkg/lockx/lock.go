package lockx

import (
	"context"
	"sync"
	"time"
)

// Locker obtains exclusive, expiring locks by key
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

// NewLocal returns an in-process Locker, enough when a single process runs
// the bootstrap. ttl is ignored.
func NewLocal() Locker {
	return &local{locks: map[string]*sync.Mutex{}}
}

type local struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *local) Obtain(ctx context.Context, key string, _ time.Duration) (Lock, error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	obtained := make(chan struct{})
	go func() {
		m.Lock()
		close(obtained)
	}()
	select {
	case <-obtained:
		return &localLock{m: m}, nil
	case <-ctx.Done():
		// hand the mutex back once the pending Lock returns
		go func() {
			<-obtained
			m.Unlock()
		}()
		return nil, ctx.Err()
	}
}

type localLock struct {
	once sync.Once
	m    *sync.Mutex
}

func (l *localLock) Release(context.Context) error {
	l.once.Do(l.m.Unlock)
	return nil
}
