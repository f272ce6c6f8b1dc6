package legacy

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	pkgcode "github.com/crochee/actionstore/pkg/code"
)

// conditions collects the WHERE clause of a posts query
type conditions struct {
	joinGroup bool
	clauses   []string
	args      []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) from() string {
	from := ` FROM {posts} p`
	if c.joinGroup {
		from += ` LEFT JOIN {term_relationships} r ON r.object_id = p.ID LEFT JOIN {terms} t ON t.term_id = r.term_id`
	}
	return from + ` WHERE ` + strings.Join(c.clauses, ` AND `)
}

func newConditions(q *store.Query) (*conditions, error) {
	c := &conditions{joinGroup: q.Group != "" || q.SortColumn() == store.OrderByGroup}
	c.add("p.post_type = ?", PostType)
	if q.Hook != "" {
		c.add("p.post_title = ?", q.Hook)
	}
	if q.Args != nil {
		args, err := q.Args.Encode()
		if err != nil {
			return nil, pkgerrors.WithStack(pkgcode.ErrInvalidParam.WithResult(err.Error()))
		}
		c.add("p.post_content = ?", args)
	}
	if q.Group != "" {
		c.add("t.slug = ?", q.Group)
	}
	if q.Status != "" {
		c.add("p.post_status = ?", postStatus(q.Status))
	}
	if !q.Date.IsZero() {
		c.add("p.post_date_gmt "+store.Comparator(q.DateCompare)+" ?", model.Normalize(q.Date))
	}
	if !q.Modified.IsZero() {
		c.add("p.post_modified_gmt "+store.Comparator(q.ModifiedCompare)+" ?", model.Normalize(q.Modified))
	}
	switch {
	case q.ClaimID != 0:
		c.add("p.post_password = ?", claimValue(q.ClaimID))
	case q.Claimed != nil && *q.Claimed:
		c.add("p.post_password != ''")
	case q.Claimed != nil:
		c.add("p.post_password = ''")
	}
	return c, nil
}

var sortColumns = map[string]string{
	store.OrderByDate:     "p.post_date_gmt",
	store.OrderByModified: "p.post_modified_gmt",
	store.OrderByHook:     "p.post_title",
	store.OrderByGroup:    "t.slug",
}

func (s *Store) QueryActions(ctx context.Context, query *store.Query, mode store.QueryMode) (*store.QueryResult, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if query == nil {
		query = &store.Query{}
	}
	c, err := newConditions(query)
	if err != nil {
		return nil, err
	}
	if mode == store.QueryCount {
		var count int64
		if err = s.db.GetContext(ctx, &count, s.q(`SELECT COUNT(*)`+c.from()), c.args...); err != nil {
			return nil, s.fail(ctx, "query_actions", err)
		}
		return &store.QueryResult{Count: count}, nil
	}

	dir := " ASC"
	if query.Descending() {
		dir = " DESC"
	}
	stmt := `SELECT p.ID` + c.from() + ` ORDER BY ` + sortColumns[query.SortColumn()] + dir + `, p.ID` + dir
	args := c.args
	switch {
	case query.PerPage > 0:
		stmt += ` LIMIT ? OFFSET ?`
		args = append(args, query.PerPage, query.Offset)
	case query.Offset > 0:
		stmt += ` LIMIT ? OFFSET ?`
		args = append(args, math.MaxInt32, query.Offset)
	}
	ids := make([]int64, 0)
	if err = s.db.SelectContext(ctx, &ids, s.q(stmt), args...); err != nil {
		return nil, s.fail(ctx, "query_actions", err)
	}
	return &store.QueryResult{IDs: ids}, nil
}

func (s *Store) FindAction(ctx context.Context, hook string, params *store.FindParams) (int64, error) {
	q := &store.Query{Hook: hook, Status: params.FindStatus()}
	if params != nil {
		q.Args = params.Args
		q.Group = params.Group
	}
	c, err := newConditions(q)
	if err != nil {
		return 0, err
	}
	order := ` ORDER BY p.post_date_gmt ASC, p.ID ASC`
	if !params.Earliest() {
		order = ` ORDER BY p.post_modified_gmt DESC, p.post_date_gmt DESC, p.ID DESC`
	}
	var id int64
	err = s.db.GetContext(ctx, &id, s.q(`SELECT p.ID`+c.from()+order+` LIMIT 1`), c.args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, s.fail(ctx, "find_action", err, zap.String("hook", hook))
	}
	return id, nil
}
