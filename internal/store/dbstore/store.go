package dbstore

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/pkg/logger"
	"github.com/crochee/actionstore/pkg/storage"
)

// Store keeps actions in dedicated tables through gorm. MySQL in production,
// SQLite for development and tests.
type Store struct {
	db       *storage.DB
	name     string
	loc      *time.Location
	notifier store.Notifier
	groups   *cache.Cache
	now      func() time.Time
}

type Option func(*Store)

// WithName labels metrics and logs, "primary" by default
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// WithLocation sets the zone of the *_local columns
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		s.loc = loc
	}
}

func WithNotifier(n store.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(db *storage.DB, opts ...Option) *Store {
	s := &Store{
		db:       db,
		name:     "primary",
		loc:      time.UTC,
		notifier: store.NopNotifier{},
		// groups are never deleted, slug to id never changes
		groups: cache.New(time.Hour, 10*time.Minute),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.ActionStore = (*Store)(nil)

func (s *Store) conn(ctx context.Context) *storage.DB {
	return s.db.With(ctx)
}

func (s *Store) clock() time.Time {
	return model.Normalize(s.now())
}

// fail logs and counts a storage failure, then wraps it
func (s *Store) fail(ctx context.Context, op string, err error, fields ...zap.Field) error {
	s.logFailure(ctx, op, err, fields...)
	return store.StorageFailure(err)
}

// logFailure logs and counts a storage failure
func (s *Store) logFailure(ctx context.Context, op string, err error, fields ...zap.Field) {
	metrics.StorageErrors.WithLabelValues(s.name, op).Inc()
	logger.From(ctx).Error("action storage failure",
		append(fields, zap.String("backend", s.name), zap.String("operation", op), zap.Error(err))...)
}

func (s *Store) gmtLocal(t time.Time) (*time.Time, *time.Time) {
	if t.IsZero() {
		return nil, nil
	}
	gmt := model.Normalize(t)
	local := model.WallClock(gmt, s.loc)
	return &gmt, &local
}
