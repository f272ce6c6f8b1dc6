package service

import (
	"github.com/crochee/actionstore/internal/service/action"
	"github.com/crochee/actionstore/internal/store"
)

type Service interface {
	Actions() action.ActionSrv
}

func NewService(actions store.ActionStore) Service {
	return &service{actions: action.NewActionSrv(actions)}
}

type service struct {
	actions action.ActionSrv
}

func (s *service) Actions() action.ActionSrv {
	return s.actions
}
