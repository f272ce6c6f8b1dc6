package dbstore

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	pkgcode "github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/logger"
)

type actionWithGroup struct {
	model.ActionRow
	GroupSlug *string `gorm:"column:group_slug"`
}

func (s *Store) SaveAction(ctx context.Context, action *model.Action, date *time.Time) (int64, error) {
	if action.IsNull() {
		return 0, pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult("cannot save a null action"))
	}
	status := model.StatusPending
	if action.IsFinished() {
		status = model.StatusComplete
	}
	scheduled := action.Schedule.Date
	if date != nil {
		scheduled = *date
	}
	row, err := s.newRow(ctx, action, status, scheduled)
	if err != nil {
		return 0, err
	}
	if err = s.conn(ctx).Create(row).Error; err != nil {
		return 0, s.fail(ctx, "save_action", err, zap.String("hook", action.Hook))
	}
	s.notifier.Notify(ctx, store.EventStored, row.ActionID)
	return row.ActionID, nil
}

func (s *Store) newRow(ctx context.Context, action *model.Action, status model.Status, scheduled time.Time) (*model.ActionRow, error) {
	args, err := action.Args.Encode()
	if err != nil {
		return nil, pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
	}
	schedule, err := model.EncodeSchedule(action.Schedule)
	if err != nil {
		return nil, pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
	}
	groupID, err := s.groupID(ctx, action.Group, true)
	if err != nil {
		return nil, err
	}
	gmt, local := s.gmtLocal(scheduled)
	return &model.ActionRow{
		Hook:               action.Hook,
		Status:             string(status),
		ScheduledDateGMT:   gmt,
		ScheduledDateLocal: local,
		Args:               args,
		Schedule:           datatypes.JSON(schedule),
		GroupID:            groupID,
	}, nil
}

func (s *Store) fetchRow(ctx context.Context, id int64) (*actionWithGroup, error) {
	var row actionWithGroup
	err := s.conn(ctx).Table(model.ActionTable+" a").
		Select("a.*, g.slug AS group_slug").
		Joins("LEFT JOIN "+model.GroupTable+" g ON g.group_id = a.group_id").
		Where("a.action_id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.NotFound(id)
		}
		return nil, s.fail(ctx, "fetch_action", err, zap.Int64("action_id", id))
	}
	return &row, nil
}

// FetchAction returns a null action for an unknown id
func (s *Store) FetchAction(ctx context.Context, id int64) (*model.Action, error) {
	row, err := s.fetchRow(ctx, id)
	if err != nil {
		if errors.Is(err, code.ErrActionNotFound) {
			return model.NewNullAction(), nil
		}
		return nil, err
	}
	return s.toAction(ctx, row), nil
}

func (s *Store) toAction(ctx context.Context, row *actionWithGroup) *model.Action {
	args, err := model.DecodeArgs(row.Args)
	if err != nil {
		logger.From(ctx).Warn("undecodable args", zap.Int64("action_id", row.ActionID), zap.Error(err))
		args = model.Args{}
	}
	a := model.NewAction(row.Hook, args, model.DecodeSchedule(row.Schedule), "")
	if row.GroupSlug != nil {
		a.Group = *row.GroupSlug
	}
	a.Status = model.Status(row.Status)
	return a
}

func (s *Store) UpdateAction(ctx context.Context, id int64, update *store.ActionUpdate) error {
	if update.Empty() {
		_, err := s.GetStatus(ctx, id)
		if errors.Is(err, code.ErrStatusInconsistent) {
			return nil
		}
		return err
	}
	values := map[string]interface{}{}
	if update.Hook != nil {
		values["hook"] = *update.Hook
	}
	if update.Args != nil {
		args, err := update.Args.Encode()
		if err != nil {
			return pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
		}
		values["args"] = args
	}
	if update.Group != nil {
		groupID, err := s.groupID(ctx, *update.Group, true)
		if err != nil {
			return err
		}
		values["group_id"] = groupID
	}
	if update.Schedule != nil {
		schedule, err := model.EncodeSchedule(*update.Schedule)
		if err != nil {
			return pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
		}
		gmt, local := s.gmtLocal(update.Schedule.Date)
		values["schedule"] = datatypes.JSON(schedule)
		values["scheduled_date_gmt"] = gmt
		values["scheduled_date_local"] = local
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult("unknown status " + string(*update.Status)))
		}
		values["status"] = string(*update.Status)
	}
	return s.updateByID(ctx, "update_action", id, values)
}

// updateByID fails with not-found when no row matched
func (s *Store) updateByID(ctx context.Context, op string, id int64, values map[string]interface{}) error {
	result := s.conn(ctx).Model(&model.ActionRow{}).Where("action_id = ?", id).Updates(values)
	if result.Error != nil {
		return s.fail(ctx, op, result.Error, zap.Int64("action_id", id))
	}
	if result.RowsAffected == 0 {
		return store.NotFound(id)
	}
	return nil
}

func (s *Store) CancelAction(ctx context.Context, id int64) error {
	if err := s.updateByID(ctx, "cancel_action", id, map[string]interface{}{
		"status": string(model.StatusCanceled),
	}); err != nil {
		return err
	}
	s.notifier.Notify(ctx, store.EventCanceled, id)
	return nil
}

func (s *Store) DeleteAction(ctx context.Context, id int64) error {
	result := s.conn(ctx).Where("action_id = ?", id).Delete(&model.ActionRow{})
	if result.Error != nil {
		return s.fail(ctx, "delete_action", result.Error, zap.Int64("action_id", id))
	}
	if result.RowsAffected == 0 {
		return store.NotFound(id)
	}
	s.notifier.Notify(ctx, store.EventDeleted, id)
	return nil
}

func (s *Store) MarkFailure(ctx context.Context, id int64) error {
	return s.updateByID(ctx, "mark_failure", id, map[string]interface{}{
		"status": string(model.StatusFailed),
	})
}

func (s *Store) MarkComplete(ctx context.Context, id int64) error {
	gmt, local := s.gmtLocal(s.clock())
	return s.updateByID(ctx, "mark_complete", id, map[string]interface{}{
		"status":             string(model.StatusComplete),
		"last_attempt_gmt":   gmt,
		"last_attempt_local": local,
	})
}

// LogExecution does not check that id exists
func (s *Store) LogExecution(ctx context.Context, id int64) error {
	gmt, local := s.gmtLocal(s.clock())
	err := s.conn(ctx).Model(&model.ActionRow{}).Where("action_id = ?", id).Updates(map[string]interface{}{
		"attempts":           gorm.Expr("attempts + 1"),
		"status":             string(model.StatusRunning),
		"last_attempt_gmt":   gmt,
		"last_attempt_local": local,
	}).Error
	if err != nil {
		return s.fail(ctx, "log_execution", err, zap.Int64("action_id", id))
	}
	return nil
}

func (s *Store) GetStatus(ctx context.Context, id int64) (model.Status, error) {
	row, err := s.dates(ctx, "get_status", id)
	if err != nil {
		return "", err
	}
	status := model.Status(row.Status)
	if !status.Valid() {
		logger.From(ctx).Error("action status is invalid",
			zap.String("backend", s.name), zap.Int64("action_id", id), zap.String("status", row.Status))
		return "", pkgerrors.WithStack(code.ErrStatusInconsistent.WithResult(id))
	}
	return status, nil
}

// dates loads the columns the per-id readers need
func (s *Store) dates(ctx context.Context, op string, id int64) (*model.ActionRow, error) {
	var row model.ActionRow
	err := s.conn(ctx).
		Select("action_id", "status", "scheduled_date_gmt", "last_attempt_gmt", "last_attempt_local").
		Where("action_id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.NotFound(id)
		}
		return nil, s.fail(ctx, op, err, zap.Int64("action_id", id))
	}
	return &row, nil
}

func (s *Store) GetDateGMT(ctx context.Context, id int64) (time.Time, error) {
	row, err := s.dates(ctx, "get_date", id)
	if err != nil {
		return time.Time{}, err
	}
	if model.Status(row.Status) == model.StatusPending {
		return model.TimeValue(row.ScheduledDateGMT).UTC(), nil
	}
	return model.TimeValue(row.LastAttemptGMT).UTC(), nil
}

func (s *Store) GetDate(ctx context.Context, id int64) (time.Time, error) {
	t, err := s.GetDateGMT(ctx, id)
	if err != nil || t.IsZero() {
		return t, err
	}
	return t.In(s.loc), nil
}

func (s *Store) GetLastAttempt(ctx context.Context, id int64) (time.Time, error) {
	row, err := s.dates(ctx, "get_last_attempt", id)
	if err != nil {
		return time.Time{}, err
	}
	return model.TimeValue(row.LastAttemptGMT).UTC(), nil
}

func (s *Store) GetLastAttemptLocal(ctx context.Context, id int64) (time.Time, error) {
	row, err := s.dates(ctx, "get_last_attempt", id)
	if err != nil {
		return time.Time{}, err
	}
	return model.FromWallClock(model.TimeValue(row.LastAttemptLocal), s.loc), nil
}

// ActionCounts leaves out statuses it does not recognise
func (s *Store) ActionCounts(ctx context.Context) (map[model.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.conn(ctx).Model(&model.ActionRow{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail(ctx, "action_counts", err)
	}
	counts := make(map[model.Status]int64, len(rows))
	for _, row := range rows {
		if status := model.Status(row.Status); status.Valid() {
			counts[status] = row.Count
		}
	}
	return counts, nil
}
