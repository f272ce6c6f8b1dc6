package dbstore

import (
	"context"
	"errors"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/pkg/storage"
)

// BoundaryOption is the option row holding the first id owned by this store
const BoundaryOption = "hybrid_store_demarkation"

// LoadBoundary returns 0 when no boundary was saved
func (s *Store) LoadBoundary(ctx context.Context) (int64, error) {
	var row model.OptionRow
	err := s.conn(ctx).Where("option_name = ?", BoundaryOption).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, s.fail(ctx, "load_boundary", err)
	}
	boundary, err := strconv.ParseInt(row.Value, 10, 64)
	if err != nil {
		return 0, pkgerrors.WithStack(code.ErrBoundary.WithResult("unreadable boundary " + row.Value))
	}
	return boundary, nil
}

func (s *Store) SaveBoundary(ctx context.Context, boundary int64) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "option_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_value"}),
	}).Create(&model.OptionRow{Name: BoundaryOption, Value: strconv.FormatInt(boundary, 10)}).Error
	if err != nil {
		return s.fail(ctx, "save_boundary", err, zap.Int64("boundary", boundary))
	}
	return nil
}

// SeedActionID moves the id sequence to id by inserting and deleting a
// placeholder, so the next saved action gets an id of at least id.
func (s *Store) SeedActionID(ctx context.Context, id int64) error {
	err := s.db.Transaction(ctx, func(tx *storage.DB) error {
		placeholder := &model.ActionRow{
			ActionID: id,
			Status:   string(model.StatusCanceled),
			Args:     "{}",
		}
		if err := tx.Create(placeholder).Error; err != nil {
			return err
		}
		return tx.Where("action_id = ?", id).Delete(&model.ActionRow{}).Error
	})
	if err != nil {
		return s.fail(ctx, "seed_action_id", err, zap.Int64("action_id", id))
	}
	return nil
}

// MaxActionID is 0 for an empty table
func (s *Store) MaxActionID(ctx context.Context) (int64, error) {
	var max int64
	err := s.conn(ctx).Model(&model.ActionRow{}).Select("COALESCE(MAX(action_id), 0)").Scan(&max).Error
	if err != nil {
		return 0, s.fail(ctx, "max_action_id", err)
	}
	return max, nil
}

func (s *Store) exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&model.ActionRow{}).Where("action_id = ?", id).Count(&count).Error; err != nil {
		return false, s.fail(ctx, "exists", err, zap.Int64("action_id", id))
	}
	return count > 0, nil
}

// ImportAction writes rec under its own id. It reports false when the id is
// already present, which is how a concurrent or repeated import shows up.
// The action arrives unclaimed and no event is sent.
func (s *Store) ImportAction(ctx context.Context, rec *model.Record) (bool, error) {
	if rec == nil || rec.Action.IsNull() || rec.ID <= 0 {
		return false, pkgerrors.WithStack(code.ErrMigrate.WithResult("nothing to import"))
	}
	found, err := s.exists(ctx, rec.ID)
	if err != nil || found {
		return false, err
	}
	scheduled := rec.ScheduledDate
	if scheduled.IsZero() {
		scheduled = rec.Action.Schedule.Date
	}
	status := rec.Action.Status
	if status == "" {
		status = model.StatusPending
	}
	row, err := s.newRow(ctx, rec.Action, status, scheduled)
	if err != nil {
		return false, err
	}
	row.ActionID = rec.ID
	row.Attempts = rec.Attempts
	row.LastAttemptGMT, row.LastAttemptLocal = s.gmtLocal(rec.LastAttempt)
	if err = s.conn(ctx).Create(row).Error; err != nil {
		if found, _ = s.exists(ctx, rec.ID); found {
			return false, nil
		}
		return false, s.fail(ctx, "import_action", err, zap.Int64("action_id", rec.ID))
	}
	return true, nil
}

// ExportAction reads back the full record of id
func (s *Store) ExportAction(ctx context.Context, id int64) (*model.Record, error) {
	row, err := s.fetchRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.Record{
		ID:            row.ActionID,
		Action:        s.toAction(ctx, row),
		ScheduledDate: model.TimeValue(row.ScheduledDateGMT).UTC(),
		Attempts:      row.Attempts,
		ClaimID:       row.ClaimID,
		LastAttempt:   model.TimeValue(row.LastAttemptGMT).UTC(),
	}, nil
}

