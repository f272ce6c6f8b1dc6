package hybrid

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/pkg/lockx"
	"github.com/crochee/actionstore/pkg/logger"
)

// BoundaryLock guards the one-time boundary bootstrap across processes
const BoundaryLock = "actionstore:boundary"

// IDSource reports the highest action id a store has minted
type IDSource interface {
	MaxActionID(ctx context.Context) (int64, error)
}

// BoundaryStore is the primary side of the bootstrap
type BoundaryStore interface {
	IDSource
	LoadBoundary(ctx context.Context) (int64, error)
	SaveBoundary(ctx context.Context, boundary int64) error
	SeedActionID(ctx context.Context, id int64) error
}

// EnsureBoundaryInitialized returns the saved boundary, computing it on first
// use as the secondary's highest id plus one. The primary's id sequence is
// moved to the boundary before it is saved, so a crash in between only
// repeats the seeding. It must run before the primary stores any action.
func EnsureBoundaryInitialized(ctx context.Context, primary BoundaryStore, secondary IDSource,
	locker lockx.Locker, ttl time.Duration) (int64, error) {
	boundary, err := primary.LoadBoundary(ctx)
	if err != nil || boundary > 0 {
		return boundary, err
	}

	lock, err := locker.Obtain(ctx, BoundaryLock, ttl)
	if err != nil {
		return 0, errors.WithStack(code.ErrBoundary.WithResult(err.Error()))
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			logger.From(ctx).Warn("release boundary lock", zap.Error(err))
		}
	}()

	// another process may have finished while we waited
	if boundary, err = primary.LoadBoundary(ctx); err != nil || boundary > 0 {
		return boundary, err
	}
	legacyMax, err := secondary.MaxActionID(ctx)
	if err != nil {
		return 0, err
	}
	primaryMax, err := primary.MaxActionID(ctx)
	if err != nil {
		return 0, err
	}
	if primaryMax > 0 && primaryMax <= legacyMax {
		return 0, errors.WithStack(code.ErrBoundary.WithResult("primary already holds ids in the legacy range"))
	}
	boundary = legacyMax + 1
	if primaryMax < boundary {
		if err = primary.SeedActionID(ctx, boundary); err != nil {
			return 0, err
		}
	}
	if err = primary.SaveBoundary(ctx, boundary); err != nil {
		return 0, err
	}
	logger.From(ctx).Info("demarkation boundary initialized",
		zap.Int64("boundary", boundary), zap.Int64("legacy_max_id", legacyMax))
	return boundary, nil
}
