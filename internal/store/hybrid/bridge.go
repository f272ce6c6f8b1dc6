package hybrid

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/pkg/logger"
)

//go:generate mockgen -source=./bridge.go -destination=./bridge_mock.go -package=hybrid

// Migrator moves legacy actions into the primary store under the same id.
// Migrating an id twice is a no-op.
type Migrator interface {
	Migrate(ctx context.Context, ids []int64) error
}

// Bridge serves one ActionStore over a legacy secondary and a primary store.
// Ids below the boundary were minted by the secondary, everything else by
// the primary. Legacy rows move to the primary as queries and claims come
// across them, new actions are only ever written to the primary.
type Bridge struct {
	primary   store.ActionStore
	secondary store.ActionStore
	migrator  Migrator
	boundary  int64
}

// New fixes the boundary for the life of the Bridge
func New(primary, secondary store.ActionStore, migrator Migrator, boundary int64) (*Bridge, error) {
	if boundary <= 0 {
		return nil, pkgerrors.WithStack(code.ErrBoundary.WithResult(boundary))
	}
	return &Bridge{
		primary:   primary,
		secondary: secondary,
		migrator:  migrator,
		boundary:  boundary,
	}, nil
}

var _ store.ActionStore = (*Bridge)(nil)

func (b *Bridge) Boundary() int64 {
	return b.boundary
}

// ActionInPrimaryStore reports whether id was minted by the primary store
func (b *Bridge) ActionInPrimaryStore(id int64) bool {
	return id >= b.boundary
}

// route runs fn against the store owning id. A legacy id the secondary no
// longer holds has already been migrated and is answered by the primary.
func (b *Bridge) route(ctx context.Context, id int64, fn func(s store.ActionStore) error) error {
	if b.ActionInPrimaryStore(id) {
		return fn(b.primary)
	}
	err := fn(b.secondary)
	if errors.Is(err, code.ErrActionNotFound) {
		logger.From(ctx).Debug("legacy action not in secondary, trying primary", zap.Int64("action_id", id))
		return fn(b.primary)
	}
	return err
}

// pullForward migrates ids found in the secondary. A failed migration leaves
// the ids where they are for a later caller, the query itself goes on.
func (b *Bridge) pullForward(ctx context.Context, op string, ids []int64) {
	if len(ids) == 0 {
		return
	}
	logger.From(ctx).Debug("pulling legacy actions forward", zap.String("operation", op), zap.Int64s("action_ids", ids))
	if err := b.migrator.Migrate(ctx, ids); err != nil {
		logger.From(ctx).Error("pull forward failed",
			zap.String("operation", op), zap.Int64s("action_ids", ids), zap.Error(err))
	}
}

func (b *Bridge) SaveAction(ctx context.Context, action *model.Action, date *time.Time) (int64, error) {
	return b.primary.SaveAction(ctx, action, date)
}

func (b *Bridge) FetchAction(ctx context.Context, id int64) (*model.Action, error) {
	if b.ActionInPrimaryStore(id) {
		return b.primary.FetchAction(ctx, id)
	}
	action, err := b.secondary.FetchAction(ctx, id)
	if err != nil || !action.IsNull() {
		return action, err
	}
	return b.primary.FetchAction(ctx, id)
}

// FindAction migrates the secondary's match, if any, then answers from the primary
func (b *Bridge) FindAction(ctx context.Context, hook string, params *store.FindParams) (int64, error) {
	id, err := b.secondary.FindAction(ctx, hook, params)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		b.pullForward(ctx, "find_action", []int64{id})
	}
	return b.primary.FindAction(ctx, hook, params)
}

// QueryActions migrates whatever the secondary matches, then answers from
// the primary. The secondary is asked for everything up to the end of the
// requested page so the primary's page comes out complete. A count uses the
// same window, so it covers the primary plus at most one page pulled forward.
func (b *Bridge) QueryActions(ctx context.Context, query *store.Query, mode store.QueryMode) (*store.QueryResult, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	legacy := query.Clone()
	if legacy.PerPage > 0 {
		legacy.PerPage += legacy.Offset
	}
	legacy.Offset = 0
	found, err := b.secondary.QueryActions(ctx, legacy, store.QuerySelect)
	if err != nil {
		return nil, err
	}
	b.pullForward(ctx, "query_actions", found.IDs)
	return b.primary.QueryActions(ctx, query, mode)
}

// ActionCounts adds up both stores, unmigrated actions included
func (b *Bridge) ActionCounts(ctx context.Context) (map[model.Status]int64, error) {
	counts, err := b.primary.ActionCounts(ctx)
	if err != nil {
		return nil, err
	}
	legacy, err := b.secondary.ActionCounts(ctx)
	if err != nil {
		return nil, err
	}
	for status, n := range legacy {
		counts[status] += n
	}
	return counts, nil
}

// UpdateAction migrates a legacy id first, updates only ever reach the primary
func (b *Bridge) UpdateAction(ctx context.Context, id int64, update *store.ActionUpdate) error {
	if !b.ActionInPrimaryStore(id) {
		if err := b.migrator.Migrate(ctx, []int64{id}); err != nil {
			return err
		}
	}
	return b.primary.UpdateAction(ctx, id, update)
}

func (b *Bridge) CancelAction(ctx context.Context, id int64) error {
	return b.route(ctx, id, func(s store.ActionStore) error {
		return s.CancelAction(ctx, id)
	})
}

func (b *Bridge) DeleteAction(ctx context.Context, id int64) error {
	return b.route(ctx, id, func(s store.ActionStore) error {
		return s.DeleteAction(ctx, id)
	})
}

func (b *Bridge) MarkFailure(ctx context.Context, id int64) error {
	return b.route(ctx, id, func(s store.ActionStore) error {
		return s.MarkFailure(ctx, id)
	})
}

func (b *Bridge) MarkComplete(ctx context.Context, id int64) error {
	return b.route(ctx, id, func(s store.ActionStore) error {
		return s.MarkComplete(ctx, id)
	})
}

// LogExecution never reports a missing id, so a legacy id is logged on
// both stores and lands wherever the action lives. If the action is migrated
// between the two calls the attempt is counted twice.
func (b *Bridge) LogExecution(ctx context.Context, id int64) error {
	if b.ActionInPrimaryStore(id) {
		return b.primary.LogExecution(ctx, id)
	}
	if err := b.secondary.LogExecution(ctx, id); err != nil {
		return err
	}
	return b.primary.LogExecution(ctx, id)
}

func (b *Bridge) GetStatus(ctx context.Context, id int64) (model.Status, error) {
	var status model.Status
	err := b.route(ctx, id, func(s store.ActionStore) error {
		var err error
		status, err = s.GetStatus(ctx, id)
		return err
	})
	return status, err
}

func (b *Bridge) routeTime(ctx context.Context, id int64, get func(s store.ActionStore) (time.Time, error)) (time.Time, error) {
	var t time.Time
	err := b.route(ctx, id, func(s store.ActionStore) error {
		var err error
		t, err = get(s)
		return err
	})
	return t, err
}

func (b *Bridge) GetDate(ctx context.Context, id int64) (time.Time, error) {
	return b.routeTime(ctx, id, func(s store.ActionStore) (time.Time, error) {
		return s.GetDate(ctx, id)
	})
}

func (b *Bridge) GetDateGMT(ctx context.Context, id int64) (time.Time, error) {
	return b.routeTime(ctx, id, func(s store.ActionStore) (time.Time, error) {
		return s.GetDateGMT(ctx, id)
	})
}

func (b *Bridge) GetLastAttempt(ctx context.Context, id int64) (time.Time, error) {
	return b.routeTime(ctx, id, func(s store.ActionStore) (time.Time, error) {
		return s.GetLastAttempt(ctx, id)
	})
}

func (b *Bridge) GetLastAttemptLocal(ctx context.Context, id int64) (time.Time, error) {
	return b.routeTime(ctx, id, func(s store.ActionStore) (time.Time, error) {
		return s.GetLastAttemptLocal(ctx, id)
	})
}

// StakeClaim claims on the secondary only to find due legacy actions and
// migrate them, that claim is released straight away. The claim returned is
// a fresh one from the primary with the same limits, so it may hold actions
// other than the ones just migrated.
func (b *Bridge) StakeClaim(ctx context.Context, maxActions int, before time.Time) (*model.Claim, error) {
	legacy, err := b.secondary.StakeClaim(ctx, maxActions, before)
	if err != nil {
		return nil, err
	}
	b.pullForward(ctx, "stake_claim", legacy.ActionIDs())
	if err = b.secondary.ReleaseClaim(ctx, legacy); err != nil {
		return nil, err
	}
	return b.primary.StakeClaim(ctx, maxActions, before)
}

// claims live on the primary only

func (b *Bridge) GetClaimCount(ctx context.Context) (int64, error) {
	return b.primary.GetClaimCount(ctx)
}

func (b *Bridge) GetClaimID(ctx context.Context, id int64) (int64, error) {
	return b.primary.GetClaimID(ctx, id)
}

func (b *Bridge) ReleaseClaim(ctx context.Context, claim *model.Claim) error {
	return b.primary.ReleaseClaim(ctx, claim)
}

func (b *Bridge) UnclaimAction(ctx context.Context, id int64) error {
	return b.primary.UnclaimAction(ctx, id)
}

func (b *Bridge) FindActionsByClaimID(ctx context.Context, claimID int64) ([]int64, error) {
	return b.primary.FindActionsByClaimID(ctx, claimID)
}
