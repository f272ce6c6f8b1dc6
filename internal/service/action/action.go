package action

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/request"
	"github.com/crochee/actionstore/internal/response"
	"github.com/crochee/actionstore/internal/store"
	pkgcode "github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/logger"
)

//go:generate mockgen -source=./action.go -destination=./action_mock.go -package=action

// ActionSrv is what the admin api can do with actions
type ActionSrv interface {
	List(ctx context.Context, req *request.ListActionsReq) (*response.ListActionsRes, error)
	Find(ctx context.Context, req *request.FindActionReq) (*response.FindActionRes, error)
	Counts(ctx context.Context) (*response.ActionCountsRes, error)
	Get(ctx context.Context, id int64) (*response.Action, error)
	Cancel(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

func NewActionSrv(actions store.ActionStore) ActionSrv {
	return actionSrv{actions: actions}
}

type actionSrv struct {
	actions store.ActionStore
}

func (a actionSrv) List(ctx context.Context, req *request.ListActionsReq) (*response.ListActionsRes, error) {
	query, err := req.Query()
	if err != nil {
		return nil, pkgcode.ErrInvalidParam.WithResult(err.Error())
	}
	total, err := a.actions.QueryActions(ctx, query, store.QueryCount)
	if err != nil {
		logger.From(ctx).Error("failed to count actions", zap.Any("param", req), zap.Error(err))
		return nil, err
	}
	page, err := a.actions.QueryActions(ctx, query, store.QuerySelect)
	if err != nil {
		logger.From(ctx).Error("failed to list actions", zap.Any("param", req), zap.Error(err))
		return nil, err
	}
	result := &response.ListActionsRes{
		Total:   total.Count,
		PerPage: req.PerPage,
		Offset:  req.Offset,
		List:    make([]*response.Action, 0, len(page.IDs)),
	}
	for _, id := range page.IDs {
		item, err := a.Get(ctx, id)
		if err != nil {
			if errors.Is(err, code.ErrActionNotFound) {
				// deleted between the query and the fetch
				continue
			}
			return nil, err
		}
		result.List = append(result.List, item)
	}
	return result, nil
}

func (a actionSrv) Find(ctx context.Context, req *request.FindActionReq) (*response.FindActionRes, error) {
	params, err := req.Params()
	if err != nil {
		return nil, pkgcode.ErrInvalidParam.WithResult(err.Error())
	}
	id, err := a.actions.FindAction(ctx, req.Hook, params)
	if err != nil {
		return nil, err
	}
	return &response.FindActionRes{ID: id}, nil
}

func (a actionSrv) Counts(ctx context.Context) (*response.ActionCountsRes, error) {
	counts, err := a.actions.ActionCounts(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := a.actions.GetClaimCount(ctx)
	if err != nil {
		return nil, err
	}
	return &response.ActionCountsRes{Counts: counts, Claims: claims}, nil
}

func (a actionSrv) Get(ctx context.Context, id int64) (*response.Action, error) {
	action, err := a.actions.FetchAction(ctx, id)
	if err != nil {
		return nil, err
	}
	if action.IsNull() {
		return nil, store.NotFound(id)
	}
	item := &response.Action{
		ID:       id,
		Hook:     action.Hook,
		Args:     action.Args,
		Group:    action.Group,
		Schedule: action.Schedule,
	}
	if item.Status, err = a.actions.GetStatus(ctx, id); err != nil {
		return nil, err
	}
	if item.ClaimID, err = a.actions.GetClaimID(ctx, id); err != nil {
		return nil, err
	}
	if item.DateGMT, err = a.actions.GetDateGMT(ctx, id); err != nil {
		return nil, err
	}
	if item.Date, err = a.actions.GetDate(ctx, id); err != nil {
		return nil, err
	}
	last, err := a.actions.GetLastAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !last.IsZero() {
		item.LastAttempt = &last
	}
	return item, nil
}

func (a actionSrv) Cancel(ctx context.Context, id int64) error {
	if err := a.actions.CancelAction(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("action canceled", zap.Int64("action_id", id))
	return nil
}

func (a actionSrv) Delete(ctx context.Context, id int64) error {
	if err := a.actions.DeleteAction(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("action deleted", zap.Int64("action_id", id))
	return nil
}
