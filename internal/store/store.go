package store

import (
	"context"
	"time"

	"github.com/crochee/actionstore/internal/model"
)

// DefaultClaimSize is used when StakeClaim is asked for zero actions
const DefaultClaimSize = 10

// ActionStore persists actions, groups and claims.
//
// Per-id readers and mutators fail with code.ErrActionNotFound when the id is
// unknown, except FetchAction which returns a null action, GetClaimID which
// returns 0, and LogExecution and UnclaimAction which do nothing.
type ActionStore interface {
	// SaveAction inserts action, scheduled at date when given, otherwise at its schedule
	SaveAction(ctx context.Context, action *model.Action, date *time.Time) (int64, error)
	FetchAction(ctx context.Context, id int64) (*model.Action, error)
	// FindAction returns the best match or 0
	FindAction(ctx context.Context, hook string, params *FindParams) (int64, error)
	QueryActions(ctx context.Context, query *Query, mode QueryMode) (*QueryResult, error)
	ActionCounts(ctx context.Context) (map[model.Status]int64, error)
	UpdateAction(ctx context.Context, id int64, update *ActionUpdate) error

	CancelAction(ctx context.Context, id int64) error
	DeleteAction(ctx context.Context, id int64) error
	MarkFailure(ctx context.Context, id int64) error
	MarkComplete(ctx context.Context, id int64) error
	LogExecution(ctx context.Context, id int64) error
	GetStatus(ctx context.Context, id int64) (model.Status, error)

	// GetDate is GetDateGMT in the store's local zone
	GetDate(ctx context.Context, id int64) (time.Time, error)
	// GetDateGMT is the scheduled time while pending, the last attempt otherwise
	GetDateGMT(ctx context.Context, id int64) (time.Time, error)
	GetLastAttempt(ctx context.Context, id int64) (time.Time, error)
	GetLastAttemptLocal(ctx context.Context, id int64) (time.Time, error)

	// StakeClaim reserves up to maxActions pending actions due at or before before
	StakeClaim(ctx context.Context, maxActions int, before time.Time) (*model.Claim, error)
	GetClaimCount(ctx context.Context) (int64, error)
	GetClaimID(ctx context.Context, id int64) (int64, error)
	ReleaseClaim(ctx context.Context, claim *model.Claim) error
	UnclaimAction(ctx context.Context, id int64) error
	FindActionsByClaimID(ctx context.Context, claimID int64) ([]int64, error)
}

// ActionUpdate lists the fields to change, nil fields are left alone
type ActionUpdate struct {
	Hook     *string
	Args     *model.Args
	Group    *string
	Schedule *model.Schedule
	Status   *model.Status
}

func (u *ActionUpdate) Empty() bool {
	return u == nil || (u.Hook == nil && u.Args == nil && u.Group == nil && u.Schedule == nil && u.Status == nil)
}
