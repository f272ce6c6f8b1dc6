package dbstore

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	pkgcode "github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/storage"
)

// filter turns a store.Query into WHERE clauses over "a", the actions table,
// and "g", the groups table when it is needed.
type filter struct {
	query *store.Query
	args  string
}

func newFilter(q *store.Query) (*filter, error) {
	f := &filter{query: q}
	if q.Args != nil {
		args, err := q.Args.Encode()
		if err != nil {
			return nil, pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
		}
		f.args = args
	}
	return f, nil
}

func (f *filter) needGroup() bool {
	return f.query.Group != "" || f.query.SortColumn() == store.OrderByGroup
}

func (f *filter) Build(_ context.Context, db *gorm.DB) *gorm.DB {
	q := f.query
	if f.needGroup() {
		db = db.Joins("LEFT JOIN " + model.GroupTable + " g ON g.group_id = a.group_id")
	}
	if q.Hook != "" {
		db = db.Where("a.hook = ?", q.Hook)
	}
	if q.Args != nil {
		db = db.Where("a.args = ?", f.args)
	}
	if q.Group != "" {
		db = db.Where("g.slug = ?", q.Group)
	}
	if q.Status != "" {
		db = db.Where("a.status = ?", string(q.Status))
	}
	if !q.Date.IsZero() {
		db = db.Where("a.scheduled_date_gmt "+store.Comparator(q.DateCompare)+" ?", model.Normalize(q.Date))
	}
	if !q.Modified.IsZero() {
		db = db.Where("a.last_attempt_gmt "+store.Comparator(q.ModifiedCompare)+" ?", model.Normalize(q.Modified))
	}
	switch {
	case q.ClaimID != 0:
		db = db.Where("a.claim_id = ?", q.ClaimID)
	case q.Claimed != nil && *q.Claimed:
		db = db.Where("a.claim_id != 0")
	case q.Claimed != nil:
		db = db.Where("a.claim_id = 0")
	}
	return db
}

var sortColumns = map[string]string{
	store.OrderByDate:     "a.scheduled_date_gmt",
	store.OrderByModified: "a.last_attempt_gmt",
	store.OrderByHook:     "a.hook",
	store.OrderByGroup:    "g.slug",
}

// sortBy orders by the requested column, ties broken by id in the same direction
func sortBy(q *store.Query) storage.SQLBuilder {
	return storage.SQLBuilderFunc(func(_ context.Context, db *gorm.DB) *gorm.DB {
		dir := " ASC"
		if q.Descending() {
			dir = " DESC"
		}
		return db.Order(sortColumns[q.SortColumn()] + dir).Order("a.action_id" + dir)
	})
}

func (s *Store) actions(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Table(model.ActionTable + " a")
}

func (s *Store) QueryActions(ctx context.Context, query *store.Query, mode store.QueryMode) (*store.QueryResult, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if query == nil {
		query = &store.Query{}
	}
	f, err := newFilter(query)
	if err != nil {
		return nil, err
	}
	if mode == store.QueryCount {
		var count int64
		if err = f.Build(ctx, s.actions(ctx)).Count(&count).Error; err != nil {
			return nil, s.fail(ctx, "query_actions", err)
		}
		return &store.QueryResult{Count: count}, nil
	}
	ids := make([]int64, 0)
	err = storage.NewSQLBuilder(
		f,
		sortBy(query),
		&storage.Page{Offset: query.Offset, PerPage: query.PerPage},
	).Build(ctx, s.actions(ctx)).Pluck("a.action_id", &ids).Error
	if err != nil {
		return nil, s.fail(ctx, "query_actions", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return &store.QueryResult{IDs: ids}, nil
}

// FindAction prefers the earliest due action when looking for pending ones
// or any status, otherwise the most recently attempted.
func (s *Store) FindAction(ctx context.Context, hook string, params *store.FindParams) (int64, error) {
	q := &store.Query{Hook: hook, Status: params.FindStatus()}
	if params != nil {
		q.Args = params.Args
		q.Group = params.Group
	}
	f, err := newFilter(q)
	if err != nil {
		return 0, err
	}
	db := f.Build(ctx, s.actions(ctx))
	if params.Earliest() {
		db = db.Order("a.scheduled_date_gmt ASC").Order("a.action_id ASC")
	} else {
		db = db.Order("a.last_attempt_gmt DESC").Order("a.scheduled_date_gmt DESC").Order("a.action_id DESC")
	}
	var ids []int64
	if err = db.Limit(1).Pluck("a.action_id", &ids).Error; err != nil {
		return 0, s.fail(ctx, "find_action", err, zap.String("hook", hook))
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}
