package store

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/model"
)

// QueryMode selects what QueryActions returns
type QueryMode string

const (
	QuerySelect QueryMode = "select"
	QueryCount  QueryMode = "count"
)

// Validate rejects anything but select and count
func (m QueryMode) Validate() error {
	switch m {
	case QuerySelect, QueryCount:
		return nil
	}
	return errors.WithStack(code.ErrInvalidQueryMode.WithResult(string(m)))
}

// QueryResult holds IDs for QuerySelect and Count for QueryCount
type QueryResult struct {
	IDs   []int64
	Count int64
}

const (
	OrderByDate     = "date"
	OrderByModified = "modified"
	OrderByHook     = "hook"
	OrderByGroup    = "group"
)

// DefaultPerPage is the page size the admin API uses when none is given
const DefaultPerPage = 5

// Query filters actions. Zero values do not filter, except PerPage where
// zero or less means no limit.
type Query struct {
	Hook string
	// Args compares the canonical encoding, nil matches any args
	Args   model.Args
	Group  string
	Status model.Status

	// Date is compared against the scheduled time with DateCompare, "<=" by default
	Date        time.Time
	DateCompare string
	// Modified is compared against the last attempt with ModifiedCompare, "<=" by default
	Modified        time.Time
	ModifiedCompare string

	// Claimed restricts to claimed (true) or unclaimed (false) actions, ClaimID to one claim
	Claimed *bool
	ClaimID int64

	OrderBy string
	Order   string
	PerPage int
	Offset  int
}

// Clone returns a shallow copy so callers can adjust paging
func (q *Query) Clone() *Query {
	if q == nil {
		return &Query{}
	}
	c := *q
	return &c
}

// SortColumn maps OrderBy to one of date, modified, hook or group
func (q *Query) SortColumn() string {
	switch q.OrderBy {
	case OrderByModified, OrderByHook, OrderByGroup:
		return q.OrderBy
	}
	return OrderByDate
}

// Descending reports whether Order asks for DESC. Empty means ascending.
func (q *Query) Descending() bool {
	return q.Order != "" && !strings.EqualFold(q.Order, "ASC")
}

var comparators = map[string]struct{}{
	"!=": {}, ">": {}, ">=": {}, "<": {}, "<=": {}, "=": {},
}

// ValidateComparator returns c when it is a supported SQL comparator, "=" otherwise
func ValidateComparator(c string) string {
	if _, ok := comparators[c]; ok {
		return c
	}
	return "="
}

// Comparator applies the "<=" default before validating
func Comparator(c string) string {
	if c == "" {
		return "<="
	}
	return ValidateComparator(c)
}

// AnyStatus as FindParams.Status drops the status filter. Matches are then
// ordered by due time, earliest first, the same as for pending.
const AnyStatus model.Status = "any"

// FindParams narrows FindAction. Status defaults to pending.
type FindParams struct {
	Args   model.Args
	Status model.Status
	Group  string
}

// FindStatus applies the pending default, AnyStatus becomes no filter
func (p *FindParams) FindStatus() model.Status {
	if p == nil || p.Status == "" {
		return model.StatusPending
	}
	if p.Status == AnyStatus {
		return ""
	}
	return p.Status
}

// Earliest reports whether the earliest due match wins, otherwise the most
// recently attempted one does
func (p *FindParams) Earliest() bool {
	status := p.FindStatus()
	return status == model.StatusPending || status == ""
}
