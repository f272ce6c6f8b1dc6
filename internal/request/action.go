package request

import (
	"time"

	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/pkg/json"
)

// ListActionsReq is the query string of GET /v1/actions
type ListActionsReq struct {
	Hook  string `form:"hook"`
	Group string `form:"group"`
	// json object, compared against the stored args as a whole
	Args   string `form:"args"`
	Status string `form:"status" binding:"omitempty,oneof=pending in-progress complete failed canceled"`

	// RFC3339
	Date            time.Time `form:"date"`
	DateCompare     string    `form:"date_compare" binding:"omitempty,comparator"`
	Modified        time.Time `form:"modified"`
	ModifiedCompare string    `form:"modified_compare" binding:"omitempty,comparator"`

	Claimed *bool `form:"claimed"`
	ClaimID int64 `form:"claim_id" binding:"omitempty,min=1"`

	OrderBy string `form:"orderby" binding:"omitempty,oneof=date modified hook group"`
	Order   string `form:"order" binding:"omitempty,oneof=ASC DESC asc desc"`
	// zero or less lists everything
	PerPage int `form:"per_page,default=5"`
	Offset  int `form:"offset" binding:"omitempty,min=0"`
}

// Query converts the request into a store filter
func (r *ListActionsReq) Query() (*store.Query, error) {
	args, err := decodeArgs(r.Args)
	if err != nil {
		return nil, err
	}
	return &store.Query{
		Hook:            r.Hook,
		Args:            args,
		Group:           r.Group,
		Status:          model.Status(r.Status),
		Date:            r.Date,
		DateCompare:     r.DateCompare,
		Modified:        r.Modified,
		ModifiedCompare: r.ModifiedCompare,
		Claimed:         r.Claimed,
		ClaimID:         r.ClaimID,
		OrderBy:         r.OrderBy,
		Order:           r.Order,
		PerPage:         r.PerPage,
		Offset:          r.Offset,
	}, nil
}

// FindActionReq is the query string of GET /v1/find
type FindActionReq struct {
	Hook   string `form:"hook" binding:"required"`
	Args   string `form:"args"`
	Group  string `form:"group"`
	// "any" matches every status
	Status string `form:"status" binding:"omitempty,oneof=pending in-progress complete failed canceled any"`
}

func (r *FindActionReq) Params() (*store.FindParams, error) {
	args, err := decodeArgs(r.Args)
	if err != nil {
		return nil, err
	}
	return &store.FindParams{
		Args:   args,
		Group:  r.Group,
		Status: model.Status(r.Status),
	}, nil
}

// ActionIDReq binds the :id path segment
type ActionIDReq struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

func decodeArgs(data string) (model.Args, error) {
	if data == "" {
		return nil, nil
	}
	var args model.Args
	if err := json.UnmarshalNumber([]byte(data), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = model.Args{}
	}
	return args, nil
}
