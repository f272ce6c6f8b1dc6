package legacy

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
)

const claimWhere = `post_type = ? AND post_status = ? AND post_password = '' AND post_date_gmt <= ?
	ORDER BY menu_order ASC, post_date_gmt ASC, ID ASC LIMIT ?`

const claimMySQL = `UPDATE {posts} SET post_password = ?, post_modified_gmt = ?, post_modified = ?
	WHERE ` + claimWhere

const claimSQLite = `UPDATE {posts} SET post_password = ?, post_modified_gmt = ?, post_modified = ?
	WHERE post_password = '' AND ID IN (SELECT ID FROM {posts} WHERE ` + claimWhere + `)`

// StakeClaim marks due pending posts with a fresh claim id in one UPDATE.
// The claim row only mints ids and is not linked to the posts it names.
func (s *Store) StakeClaim(ctx context.Context, maxActions int, before time.Time) (*model.Claim, error) {
	if maxActions <= 0 {
		maxActions = store.DefaultClaimSize
	}
	now := s.clock()
	if before.IsZero() {
		before = now
	}
	result, err := s.db.ExecContext(ctx, s.q(`INSERT INTO {claims} (date_created_gmt) VALUES (?)`), now)
	if err != nil {
		return nil, s.claimFailed(ctx, "generate_claim", err)
	}
	claimID, err := result.LastInsertId()
	if err != nil {
		return nil, s.claimFailed(ctx, "generate_claim", err)
	}
	stmt := claimMySQL
	if s.sqlite() {
		stmt = claimSQLite
	}
	_, err = s.db.ExecContext(ctx, s.q(stmt), claimValue(claimID), now, model.WallClock(now, s.loc),
		PostType, postStatus(model.StatusPending), model.Normalize(before), maxActions)
	if err != nil {
		return nil, s.claimFailed(ctx, "claim_actions", err, zap.Int64("claim_id", claimID))
	}
	ids, err := s.FindActionsByClaimID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	metrics.ClaimsStaked.WithLabelValues(s.name).Inc()
	metrics.ActionsClaimed.WithLabelValues(s.name).Add(float64(len(ids)))
	return model.NewClaim(claimID, ids), nil
}

func (s *Store) claimFailed(ctx context.Context, op string, err error, fields ...zap.Field) error {
	s.logFailure(ctx, op, err, fields...)
	return pkgerrors.WithStack(code.ErrClaimFailed.WithResult(err.Error()))
}

func (s *Store) GetClaimCount(ctx context.Context) (int64, error) {
	query, args, err := sqlx.In(`SELECT COUNT(DISTINCT post_password) FROM {posts}
		WHERE post_type = ? AND post_password != '' AND post_status IN (?)`,
		PostType, []string{postStatus(model.StatusPending), postStatus(model.StatusRunning)})
	if err != nil {
		return 0, s.fail(ctx, "get_claim_count", err)
	}
	var count int64
	if err = s.db.GetContext(ctx, &count, s.db.Rebind(s.q(query)), args...); err != nil {
		return 0, s.fail(ctx, "get_claim_count", err)
	}
	return count, nil
}

func (s *Store) GetClaimID(ctx context.Context, id int64) (int64, error) {
	var claim string
	err := s.db.GetContext(ctx, &claim, s.q(`SELECT post_password FROM {posts} WHERE ID = ? AND post_type = ?`), id, PostType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, s.fail(ctx, "get_claim_id", err, zap.Int64("action_id", id))
	}
	return parseClaim(claim), nil
}

func (s *Store) ReleaseClaim(ctx context.Context, claim *model.Claim) error {
	if claim == nil || claim.ID() <= 0 {
		return nil
	}
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE {posts} SET post_password = '' WHERE post_password = ? AND post_type = ?`),
			claimValue(claim.ID()), PostType); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`DELETE FROM {claims} WHERE claim_id = ?`), claim.ID())
		return err
	})
	if err != nil {
		return s.fail(ctx, "release_claim", err, zap.Int64("claim_id", claim.ID()))
	}
	return nil
}

func (s *Store) UnclaimAction(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.q(`UPDATE {posts} SET post_password = '' WHERE ID = ? AND post_type = ?`), id, PostType)
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
	err := s.db.SelectContext(ctx, &ids, s.q(`SELECT ID FROM {posts} WHERE post_password = ? AND post_type = ? ORDER BY ID ASC`),
		claimValue(claimID), PostType)
	if err != nil {
		return nil, s.fail(ctx, "find_actions_by_claim", err, zap.Int64("claim_id", claimID))
	}
	return ids, nil
}
