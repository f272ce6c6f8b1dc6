package legacy

import (
	"context"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/pkg/logger"
)

const (
	// PostType marks the rows of the posts table that are actions
	PostType = "scheduled-action"
	// ScheduleKey is the postmeta key holding the encoded schedule
	ScheduleKey = "_action_manager_schedule"

	DefaultPrefix = "wp_"
)

var postStatuses = map[model.Status]string{
	model.StatusPending:  "pending",
	model.StatusRunning:  "in-progress",
	model.StatusComplete: "publish",
	model.StatusFailed:   "failed",
	model.StatusCanceled: "trash",
}

func postStatus(s model.Status) string {
	if ps, ok := postStatuses[s]; ok {
		return ps
	}
	return string(s)
}

// actionStatus maps a post status back, unknown values pass through unchanged
func actionStatus(ps string) model.Status {
	for s, v := range postStatuses {
		if v == ps {
			return s
		}
	}
	return model.Status(ps)
}

func claimValue(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func parseClaim(v string) int64 {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Store reads and writes actions kept as posts, the layout of the system
// being migrated away from. The driver is "mysql" in production and
// "sqlite3" in tests.
type Store struct {
	db       *sqlx.DB
	tables   *strings.Replacer
	prefix   string
	name     string
	loc      *time.Location
	notifier store.Notifier
	now      func() time.Time
}

type Option func(*Store)

// WithPrefix sets the table prefix, "wp_" by default
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

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

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open connects to the legacy database
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{
		db:       db,
		prefix:   DefaultPrefix,
		name:     "secondary",
		loc:      time.UTC,
		notifier: store.NopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tables = strings.NewReplacer(
		"{posts}", s.table("posts"),
		"{postmeta}", s.table("postmeta"),
		"{terms}", s.table("terms"),
		"{term_relationships}", s.table("term_relationships"),
		"{claims}", s.table("claims"),
	)
	return s
}

var _ store.ActionStore = (*Store)(nil)

func (s *Store) table(name string) string {
	return s.prefix + name
}

// q expands the {table} placeholders of stmt
func (s *Store) q(stmt string) string {
	return s.tables.Replace(stmt)
}

func (s *Store) sqlite() bool {
	return s.db.DriverName() == "sqlite3"
}

func (s *Store) clock() time.Time {
	return model.Normalize(s.now())
}

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

// gmtLocal returns NULL for both columns when t is zero
func (s *Store) gmtLocal(t time.Time) (interface{}, interface{}) {
	if t.IsZero() {
		return nil, nil
	}
	gmt := model.Normalize(t)
	return gmt, model.WallClock(gmt, s.loc)
}
