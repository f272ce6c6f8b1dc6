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
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	pkgcode "github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/logger"
)

type postRow struct {
	ID          int64          `db:"ID"`
	Title       string         `db:"post_title"`
	Content     string         `db:"post_content"`
	Status      string         `db:"post_status"`
	DateGMT     sql.NullTime   `db:"post_date_gmt"`
	ModifiedGMT sql.NullTime   `db:"post_modified_gmt"`
	Modified    sql.NullTime   `db:"post_modified"`
	Password    string         `db:"post_password"`
	MenuOrder   int            `db:"menu_order"`
	Schedule    sql.NullString `db:"schedule"`
	GroupSlug   sql.NullString `db:"group_slug"`
}

const selectPost = `SELECT p.ID, p.post_title, p.post_content, p.post_status, p.post_date_gmt,
	p.post_modified_gmt, p.post_modified, p.post_password, p.menu_order,
	m.meta_value AS schedule, t.slug AS group_slug
	FROM {posts} p
	LEFT JOIN {postmeta} m ON m.post_id = p.ID AND m.meta_key = '` + ScheduleKey + `'
	LEFT JOIN {term_relationships} r ON r.object_id = p.ID
	LEFT JOIN {terms} t ON t.term_id = r.term_id`

func nullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func (s *Store) tx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.From(ctx).Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
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
	args, err := action.Args.Encode()
	if err != nil {
		return 0, pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
	}
	schedule, err := model.EncodeSchedule(action.Schedule)
	if err != nil {
		return 0, pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
	}
	var id int64
	err = s.tx(ctx, func(tx *sqlx.Tx) error {
		gmt, local := s.gmtLocal(scheduled)
		result, err := tx.ExecContext(ctx, s.q(`INSERT INTO {posts}
			(post_type, post_title, post_content, post_status, post_date, post_date_gmt, post_password, menu_order)
			VALUES (?, ?, ?, ?, ?, ?, '', 0)`),
			PostType, action.Hook, args, postStatus(status), local, gmt)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
		if err = s.setSchedule(ctx, tx, id, schedule); err != nil {
			return err
		}
		return s.setGroup(ctx, tx, id, action.Group)
	})
	if err != nil {
		return 0, s.fail(ctx, "save_action", err, zap.String("hook", action.Hook))
	}
	s.notifier.Notify(ctx, store.EventStored, id)
	return id, nil
}

func (s *Store) setSchedule(ctx context.Context, tx *sqlx.Tx, id int64, schedule []byte) error {
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM {postmeta} WHERE post_id = ? AND meta_key = ?`),
		id, ScheduleKey); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, s.q(`INSERT INTO {postmeta} (post_id, meta_key, meta_value) VALUES (?, ?, ?)`),
		id, ScheduleKey, string(schedule))
	return err
}

// setGroup replaces the group term of post id, an empty slug leaves it ungrouped
func (s *Store) setGroup(ctx context.Context, tx *sqlx.Tx, id int64, slug string) error {
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM {term_relationships} WHERE object_id = ?`), id); err != nil {
		return err
	}
	if slug == "" {
		return nil
	}
	termID, err := s.termID(ctx, tx, slug)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, s.q(`INSERT INTO {term_relationships} (object_id, term_id) VALUES (?, ?)`), id, termID)
	return err
}

func (s *Store) termID(ctx context.Context, tx *sqlx.Tx, slug string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, s.q(`SELECT term_id FROM {terms} WHERE slug = ?`), slug)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, s.q(`INSERT INTO {terms} (slug) VALUES (?)`), slug)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) fetchRow(ctx context.Context, id int64) (*postRow, error) {
	var row postRow
	err := s.db.GetContext(ctx, &row, s.q(selectPost+` WHERE p.ID = ? AND p.post_type = ?`), id, PostType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NotFound(id)
		}
		return nil, s.fail(ctx, "fetch_action", err, zap.Int64("action_id", id))
	}
	return &row, nil
}

func (s *Store) toAction(ctx context.Context, row *postRow) *model.Action {
	args, err := model.DecodeArgs(row.Content)
	if err != nil {
		logger.From(ctx).Warn("undecodable args", zap.Int64("action_id", row.ID), zap.Error(err))
		args = model.Args{}
	}
	a := model.NewAction(row.Title, args, model.DecodeSchedule([]byte(row.Schedule.String)), row.GroupSlug.String)
	a.Status = actionStatus(row.Status)
	return a
}

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

func (s *Store) UpdateAction(ctx context.Context, id int64, update *store.ActionUpdate) error {
	if _, err := s.GetStatus(ctx, id); err != nil && !errors.Is(err, code.ErrStatusInconsistent) {
		return err
	}
	if update.Empty() {
		return nil
	}
	if update.Status != nil && !update.Status.Valid() {
		return pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult("unknown status " + string(*update.Status)))
	}
	var (
		args     string
		schedule []byte
		err      error
	)
	if update.Args != nil {
		if args, err = update.Args.Encode(); err != nil {
			return pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
		}
	}
	if update.Schedule != nil {
		if schedule, err = model.EncodeSchedule(*update.Schedule); err != nil {
			return pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
		}
	}
	err = s.tx(ctx, func(tx *sqlx.Tx) error {
		if update.Hook != nil {
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE {posts} SET post_title = ? WHERE ID = ?`), *update.Hook, id); err != nil {
				return err
			}
		}
		if update.Args != nil {
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE {posts} SET post_content = ? WHERE ID = ?`), args, id); err != nil {
				return err
			}
		}
		if update.Status != nil {
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE {posts} SET post_status = ? WHERE ID = ?`),
				postStatus(*update.Status), id); err != nil {
				return err
			}
		}
		if update.Schedule != nil {
			gmt, local := s.gmtLocal(update.Schedule.Date)
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE {posts} SET post_date = ?, post_date_gmt = ? WHERE ID = ?`),
				local, gmt, id); err != nil {
				return err
			}
			if err := s.setSchedule(ctx, tx, id, schedule); err != nil {
				return err
			}
		}
		if update.Group != nil {
			return s.setGroup(ctx, tx, id, *update.Group)
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "update_action", err, zap.Int64("action_id", id))
	}
	return nil
}

// exec runs a single-post update and fails with not-found when nothing matched
func (s *Store) exec(ctx context.Context, op string, id int64, stmt string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, s.q(stmt), append(args, id, PostType)...)
	if err != nil {
		return s.fail(ctx, op, err, zap.Int64("action_id", id))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return s.fail(ctx, op, err, zap.Int64("action_id", id))
	}
	if n == 0 {
		return store.NotFound(id)
	}
	return nil
}

func (s *Store) CancelAction(ctx context.Context, id int64) error {
	if err := s.exec(ctx, "cancel_action", id,
		`UPDATE {posts} SET post_status = ? WHERE ID = ? AND post_type = ?`,
		postStatus(model.StatusCanceled)); err != nil {
		return err
	}
	s.notifier.Notify(ctx, store.EventCanceled, id)
	return nil
}

func (s *Store) DeleteAction(ctx context.Context, id int64) error {
	if err := s.drop(ctx, "delete_action", id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, store.EventDeleted, id)
	return nil
}

// drop removes the post with its meta and group relationship
func (s *Store) drop(ctx context.Context, op string, id int64) error {
	var n int64
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, s.q(`DELETE FROM {posts} WHERE ID = ? AND post_type = ?`), id, PostType)
		if err != nil {
			return err
		}
		if n, err = result.RowsAffected(); err != nil || n == 0 {
			return err
		}
		if _, err = tx.ExecContext(ctx, s.q(`DELETE FROM {postmeta} WHERE post_id = ?`), id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, s.q(`DELETE FROM {term_relationships} WHERE object_id = ?`), id)
		return err
	})
	if err != nil {
		return s.fail(ctx, op, err, zap.Int64("action_id", id))
	}
	if n == 0 {
		return store.NotFound(id)
	}
	return nil
}

func (s *Store) MarkFailure(ctx context.Context, id int64) error {
	return s.exec(ctx, "mark_failure", id,
		`UPDATE {posts} SET post_status = ? WHERE ID = ? AND post_type = ?`,
		postStatus(model.StatusFailed))
}

func (s *Store) MarkComplete(ctx context.Context, id int64) error {
	gmt, local := s.gmtLocal(s.clock())
	return s.exec(ctx, "mark_complete", id,
		`UPDATE {posts} SET post_status = ?, post_modified_gmt = ?, post_modified = ? WHERE ID = ? AND post_type = ?`,
		postStatus(model.StatusComplete), gmt, local)
}

// LogExecution does not check that id exists
func (s *Store) LogExecution(ctx context.Context, id int64) error {
	gmt, local := s.gmtLocal(s.clock())
	_, err := s.db.ExecContext(ctx, s.q(`UPDATE {posts}
		SET menu_order = menu_order + 1, post_status = ?, post_modified_gmt = ?, post_modified = ?
		WHERE ID = ? AND post_type = ?`),
		postStatus(model.StatusRunning), gmt, local, id, PostType)
	if err != nil {
		return s.fail(ctx, "log_execution", err, zap.Int64("action_id", id))
	}
	return nil
}

type datesRow struct {
	Status      string       `db:"post_status"`
	DateGMT     sql.NullTime `db:"post_date_gmt"`
	ModifiedGMT sql.NullTime `db:"post_modified_gmt"`
	Modified    sql.NullTime `db:"post_modified"`
}

func (s *Store) dates(ctx context.Context, op string, id int64) (*datesRow, error) {
	var row datesRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT post_status, post_date_gmt, post_modified_gmt, post_modified
		FROM {posts} WHERE ID = ? AND post_type = ?`), id, PostType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NotFound(id)
		}
		return nil, s.fail(ctx, op, err, zap.Int64("action_id", id))
	}
	return &row, nil
}

func (s *Store) GetStatus(ctx context.Context, id int64) (model.Status, error) {
	row, err := s.dates(ctx, "get_status", id)
	if err != nil {
		return "", err
	}
	status := actionStatus(row.Status)
	if !status.Valid() {
		logger.From(ctx).Error("action status is invalid",
			zap.String("backend", s.name), zap.Int64("action_id", id), zap.String("status", row.Status))
		return "", pkgerrors.WithStack(code.ErrStatusInconsistent.WithResult(id))
	}
	return status, nil
}

func (s *Store) GetDateGMT(ctx context.Context, id int64) (time.Time, error) {
	row, err := s.dates(ctx, "get_date", id)
	if err != nil {
		return time.Time{}, err
	}
	if actionStatus(row.Status) == model.StatusPending {
		return nullTime(row.DateGMT), nil
	}
	return nullTime(row.ModifiedGMT), nil
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
	return nullTime(row.ModifiedGMT), nil
}

func (s *Store) GetLastAttemptLocal(ctx context.Context, id int64) (time.Time, error) {
	row, err := s.dates(ctx, "get_last_attempt", id)
	if err != nil {
		return time.Time{}, err
	}
	return model.FromWallClock(nullTime(row.Modified), s.loc), nil
}

func (s *Store) ActionCounts(ctx context.Context) (map[model.Status]int64, error) {
	var rows []struct {
		Status string `db:"post_status"`
		Count  int64  `db:"count"`
	}
	err := s.db.SelectContext(ctx, &rows, s.q(`SELECT post_status, COUNT(*) AS count
		FROM {posts} WHERE post_type = ? GROUP BY post_status`), PostType)
	if err != nil {
		return nil, s.fail(ctx, "action_counts", err)
	}
	counts := make(map[model.Status]int64, len(rows))
	for _, row := range rows {
		if status := actionStatus(row.Status); status.Valid() {
			counts[status] = row.Count
		}
	}
	return counts, nil
}
