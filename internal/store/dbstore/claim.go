package dbstore

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/pkg/storage"
)

// claimWhere selects what a claim may take: unclaimed, pending and due.
// Fewer attempts go first so a failing action cannot starve the rest.
const claimWhere = `claim_id = 0 AND status = ? AND scheduled_date_gmt <= ?
	ORDER BY attempts ASC, scheduled_date_gmt ASC, action_id ASC LIMIT ?`

// MySQL cannot select from the table an UPDATE targets, but accepts ORDER BY and LIMIT on the UPDATE itself.
const claimMySQL = `UPDATE ` + model.ActionTable + `
	SET claim_id = ?, last_attempt_gmt = ?, last_attempt_local = ?
	WHERE ` + claimWhere

const claimSQLite = `UPDATE ` + model.ActionTable + `
	SET claim_id = ?, last_attempt_gmt = ?, last_attempt_local = ?
	WHERE claim_id = 0 AND action_id IN (SELECT action_id FROM ` + model.ActionTable + ` WHERE ` + claimWhere + `)`

// StakeClaim reserves due pending actions with a single UPDATE, so two
// concurrent claims never share an action.
//
// The claim row only mints the id. Nothing ties it to the actions, a worker
// that dies holding a claim leaves its actions claimed until ReleaseClaim or
// UnclaimAction is called for them.
func (s *Store) StakeClaim(ctx context.Context, maxActions int, before time.Time) (*model.Claim, error) {
	if maxActions <= 0 {
		maxActions = store.DefaultClaimSize
	}
	now := s.clock()
	if before.IsZero() {
		before = now
	}
	claimID, err := s.generateClaimID(ctx, now)
	if err != nil {
		return nil, err
	}
	if err = s.claimActions(ctx, claimID, maxActions, model.Normalize(before), now); err != nil {
		return nil, err
	}
	ids, err := s.FindActionsByClaimID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	metrics.ClaimsStaked.WithLabelValues(s.name).Inc()
	metrics.ActionsClaimed.WithLabelValues(s.name).Add(float64(len(ids)))
	return model.NewClaim(claimID, ids), nil
}

func (s *Store) generateClaimID(ctx context.Context, now time.Time) (int64, error) {
	row := &model.ClaimRow{DateCreatedGMT: now}
	if err := s.conn(ctx).Create(row).Error; err != nil {
		return 0, s.claimFailed(ctx, "generate_claim", err)
	}
	return row.ClaimID, nil
}

func (s *Store) claimActions(ctx context.Context, claimID int64, limit int, before, now time.Time) error {
	db := s.conn(ctx)
	stmt := claimMySQL
	if db.Dialect() == "sqlite" {
		stmt = claimSQLite
	}
	local := model.WallClock(now, s.loc)
	err := db.Exec(stmt, claimID, now, local, string(model.StatusPending), before, limit).Error
	if err != nil {
		return s.claimFailed(ctx, "claim_actions", err, zap.Int64("claim_id", claimID))
	}
	return nil
}

func (s *Store) claimFailed(ctx context.Context, op string, err error, fields ...zap.Field) error {
	s.logFailure(ctx, op, err, fields...)
	return pkgerrors.WithStack(code.ErrClaimFailed.WithResult(err.Error()))
}

// GetClaimCount counts claims still holding pending or running actions
func (s *Store) GetClaimCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&model.ActionRow{}).
		Where("claim_id != 0 AND status IN ?", []string{string(model.StatusPending), string(model.StatusRunning)}).
		Distinct("claim_id").
		Count(&count).Error
	if err != nil {
		return 0, s.fail(ctx, "get_claim_count", err)
	}
	return count, nil
}

// GetClaimID is 0 for an unclaimed or unknown action
func (s *Store) GetClaimID(ctx context.Context, id int64) (int64, error) {
	var row model.ActionRow
	err := s.conn(ctx).Select("claim_id").Where("action_id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, s.fail(ctx, "get_claim_id", err, zap.Int64("action_id", id))
	}
	return row.ClaimID, nil
}

// ReleaseClaim frees every action still holding claim and drops the claim
// row. Releasing twice is harmless.
func (s *Store) ReleaseClaim(ctx context.Context, claim *model.Claim) error {
	if claim == nil || claim.ID() <= 0 {
		return nil
	}
	err := s.db.Transaction(ctx, func(tx *storage.DB) error {
		err := tx.Model(&model.ActionRow{}).Where("claim_id = ?", claim.ID()).Update("claim_id", 0).Error
		if err != nil {
			return err
		}
		return tx.Where("claim_id = ?", claim.ID()).Delete(&model.ClaimRow{}).Error
	})
	if err != nil {
		return s.fail(ctx, "release_claim", err, zap.Int64("claim_id", claim.ID()))
	}
	return nil
}

func (s *Store) UnclaimAction(ctx context.Context, id int64) error {
	err := s.conn(ctx).Model(&model.ActionRow{}).Where("action_id = ?", id).Update("claim_id", 0).Error
	if err != nil {
		return s.fail(ctx, "unclaim_action", err, zap.Int64("action_id", id))
	}
	return nil
}

func (s *Store) FindActionsByClaimID(ctx context.Context, claimID int64) ([]int64, error) {
	ids := make([]int64, 0)
	if claimID <= 0 {
		return ids, nil
	}
	err := s.conn(ctx).Model(&model.ActionRow{}).
		Where("claim_id = ?", claimID).
		Order("action_id ASC").
		Pluck("action_id", &ids).Error
	if err != nil {
		return nil, s.fail(ctx, "find_actions_by_claim", err, zap.Int64("claim_id", claimID))
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
