package action

import (
	"github.com/gin-gonic/gin"

	"github.com/crochee/actionstore/internal/request"
	"github.com/crochee/actionstore/internal/service"
	"github.com/crochee/actionstore/pkg/resp"
)

type ActionController struct {
	srv service.Service
}

func NewActionController(srv service.Service) *ActionController {
	return &ActionController{
		srv: srv,
	}
}

// List pages through actions matching the query string
func (a *ActionController) List(c *gin.Context) {
	var req request.ListActionsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resp.ErrorParam(c, err)
		return
	}
	result, err := a.srv.Actions().List(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c, result)
}

// Find returns the id of the best match, pending ones by earliest due time
func (a *ActionController) Find(c *gin.Context) {
	var req request.FindActionReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resp.ErrorParam(c, err)
		return
	}
	result, err := a.srv.Actions().Find(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c, result)
}

func (a *ActionController) Counts(c *gin.Context) {
	result, err := a.srv.Actions().Counts(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c, result)
}

func (a *ActionController) Get(c *gin.Context) {
	var req request.ActionIDReq
	if err := c.ShouldBindUri(&req); err != nil {
		resp.ErrorParam(c, err)
		return
	}
	result, err := a.srv.Actions().Get(c.Request.Context(), req.ID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c, result)
}

func (a *ActionController) Cancel(c *gin.Context) {
	var req request.ActionIDReq
	if err := c.ShouldBindUri(&req); err != nil {
		resp.ErrorParam(c, err)
		return
	}
	if err := a.srv.Actions().Cancel(c.Request.Context(), req.ID); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c)
}

func (a *ActionController) Delete(c *gin.Context) {
	var req request.ActionIDReq
	if err := c.ShouldBindUri(&req); err != nil {
		resp.ErrorParam(c, err)
		return
	}
	if err := a.srv.Actions().Delete(c.Request.Context(), req.ID); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c)
}
