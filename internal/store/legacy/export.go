package legacy

import (
	"context"

	"github.com/crochee/actionstore/internal/model"
)

// ExportAction reads the full record of id for migration
func (s *Store) ExportAction(ctx context.Context, id int64) (*model.Record, error) {
	row, err := s.fetchRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.Record{
		ID:            row.ID,
		Action:        s.toAction(ctx, row),
		ScheduledDate: nullTime(row.DateGMT),
		Attempts:      row.MenuOrder,
		ClaimID:       parseClaim(row.Password),
		LastAttempt:   nullTime(row.ModifiedGMT),
	}, nil
}

// DropAction removes a migrated action without announcing a deletion
func (s *Store) DropAction(ctx context.Context, id int64) error {
	return s.drop(ctx, "drop_action", id)
}

// MaxActionID is the highest post id of any type, 0 for an empty table
func (s *Store) MaxActionID(ctx context.Context) (int64, error) {
	var max int64
	if err := s.db.GetContext(ctx, &max, s.q(`SELECT COALESCE(MAX(ID), 0) FROM {posts}`)); err != nil {
		return 0, s.fail(ctx, "max_action_id", err)
	}
	return max, nil
}
