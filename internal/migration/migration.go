package migration

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/pkg/logger"
	"github.com/crochee/actionstore/pkg/retry"
)

//go:generate mockgen -source=./migration.go -destination=./migration_mock.go -package=migration

// Source is the backend actions are moved out of
type Source interface {
	ExportAction(ctx context.Context, id int64) (*model.Record, error)
	// DropAction removes a migrated action without announcing a deletion
	DropAction(ctx context.Context, id int64) error
}

// Destination is the backend actions are moved into. ImportAction keeps the
// record's id and reports false when that id is already present.
type Destination interface {
	ImportAction(ctx context.Context, rec *model.Record) (bool, error)
}

const (
	resultMigrated = "migrated"
	resultSkipped  = "skipped"
	resultFailed   = "failed"
)

type option struct {
	attempts int
	interval time.Duration
}

type Option func(*option)

// WithAttempts bounds the tries per action, 3 by default
func WithAttempts(attempts int) Option {
	return func(o *option) {
		o.attempts = attempts
	}
}

// WithInterval is the first backoff wait, 200ms by default
func WithInterval(interval time.Duration) Option {
	return func(o *option) {
		o.interval = interval
	}
}

// Runner copies actions from source to destination under the same id, then
// removes them from source.
type Runner struct {
	source Source
	dest   Destination
	opt    option
}

func NewRunner(source Source, dest Destination, opts ...Option) *Runner {
	o := option{
		attempts: 3,
		interval: 200 * time.Millisecond,
	}
	for _, f := range opts {
		f(&o)
	}
	return &Runner{source: source, dest: dest, opt: o}
}

// Migrate moves every id, continuing past failures. An id no longer in the
// source was migrated earlier and is skipped, so repeating a call is safe.
// When Migrate returns nil every id is readable from the destination.
func (r *Runner) Migrate(ctx context.Context, ids []int64) error {
	var errs error
	for _, id := range ids {
		result, err := r.migrate(ctx, id)
		metrics.ActionsMigrated.WithLabelValues(result).Inc()
		if err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return pkgerrors.WithStack(code.ErrMigrate.WithResult(errs.Error()))
	}
	return nil
}

func (r *Runner) migrate(ctx context.Context, id int64) (string, error) {
	log := logger.From(ctx).With(zap.Int64("action_id", id))
	var rec *model.Record
	err := r.retry(ctx, log, func() error {
		var err error
		rec, err = r.source.ExportAction(ctx, id)
		if errors.Is(err, code.ErrActionNotFound) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, code.ErrActionNotFound) {
			log.Debug("action already migrated")
			return resultSkipped, nil
		}
		log.Error("export action failed", zap.Error(err))
		return resultFailed, err
	}

	var imported bool
	if err = r.retry(ctx, log, func() error {
		var err error
		imported, err = r.dest.ImportAction(ctx, rec)
		return err
	}); err != nil {
		log.Error("import action failed", zap.Error(err))
		return resultFailed, err
	}

	if err = r.retry(ctx, log, func() error {
		err := r.source.DropAction(ctx, id)
		if errors.Is(err, code.ErrActionNotFound) {
			return nil
		}
		return err
	}); err != nil {
		// the destination copy wins, the next migration of id drops the source row
		log.Error("drop migrated action failed", zap.Error(err))
		return resultFailed, err
	}

	if !imported {
		log.Info("action was already present in destination")
		return resultSkipped, nil
	}
	log.Info("action migrated", zap.String("hook", rec.Action.Hook))
	return resultMigrated, nil
}

func (r *Runner) retry(ctx context.Context, log *zap.Logger, fn func() error) error {
	return retry.Do(ctx, fn,
		retry.WithAttempt(r.opt.attempts),
		retry.WithInterval(r.opt.interval),
		retry.WithNotify(func(err error, next time.Duration) {
			log.Warn("migration step failed, retrying", zap.Duration("next", next), zap.Error(err))
		}),
	)
}
