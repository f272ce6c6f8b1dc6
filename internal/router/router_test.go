package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/request"
	"github.com/crochee/actionstore/internal/response"
	srvaction "github.com/crochee/actionstore/internal/service/action"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/pkg/json"
)

type fakeService struct {
	actions srvaction.ActionSrv
}

func (f fakeService) Actions() srvaction.ActionSrv {
	return f.actions
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func newTestRouter(t *testing.T, actions srvaction.ActionSrv) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(registry))
	r, err := New(fakeService{actions: actions}, zap.NewNop(), registry)
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, target string) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	var body envelope
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return v
}

func TestHealthAndLog(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	r := newTestRouter(t, srvaction.NewMockActionSrv(ctl))

	w, _ := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = serve(r, http.MethodGet, "/log")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"debug":false}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/log", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "4000000001", body.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	r := newTestRouter(t, srvaction.NewMockActionSrv(ctl))

	tests := []struct {
		name   string
		method string
		target string
		status int
		code   string
	}{
		{name: "unknown path", method: http.MethodGet, target: "/v1/nope", status: http.StatusNotFound, code: "4040000002"},
		{name: "wrong method", method: http.MethodDelete, target: "/health", status: http.StatusMethodNotAllowed, code: "4050000003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(r, tt.method, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestListActions(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	mock := srvaction.NewMockActionSrv(ctl)
	r := newTestRouter(t, mock)

	type want struct {
		status int
		code   string
	}
	tests := []struct {
		name   string
		target string
		expect func(req *request.ListActionsReq)
		want   want
	}{
		{
			name:   "defaults",
			target: "/v1/actions",
			expect: func(req *request.ListActionsReq) {
				assert.Equal(t, store.DefaultPerPage, req.PerPage)
				assert.Empty(t, req.DateCompare)
				assert.Nil(t, req.Claimed)
			},
			want: want{status: http.StatusOK, code: "200"},
		},
		{
			name:   "filters",
			target: "/v1/actions?hook=send_mail&status=pending&date=2026-03-01T10:00:00Z&date_compare=%3E%3D&claimed=false&orderby=hook&order=DESC&per_page=-1&offset=3",
			expect: func(req *request.ListActionsReq) {
				assert.Equal(t, "send_mail", req.Hook)
				assert.Equal(t, "pending", req.Status)
				assert.Equal(t, ">=", req.DateCompare)
				assert.True(t, req.Date.Equal(mustTime(t, "2026-03-01T10:00:00Z")))
				require.NotNil(t, req.Claimed)
				assert.False(t, *req.Claimed)
				assert.Equal(t, "hook", req.OrderBy)
				assert.Equal(t, "DESC", req.Order)
				assert.Equal(t, -1, req.PerPage)
				assert.Equal(t, 3, req.Offset)
			},
			want: want{status: http.StatusOK, code: "200"},
		},
		{
			name:   "bad_comparator",
			target: "/v1/actions?date_compare=LIKE",
			want:   want{status: http.StatusBadRequest, code: "4000000001"},
		},
		{
			name:   "bad_status",
			target: "/v1/actions?status=running",
			want:   want{status: http.StatusBadRequest, code: "4000000001"},
		},
		{
			name:   "bad_orderby",
			target: "/v1/actions?orderby=args",
			want:   want{status: http.StatusBadRequest, code: "4000000001"},
		},
		{
			name:   "negative_offset",
			target: "/v1/actions?offset=-2",
			want:   want{status: http.StatusBadRequest, code: "4000000001"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expect != nil {
				mock.EXPECT().List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, req *request.ListActionsReq) (*response.ListActionsRes, error) {
						tt.expect(req)
						return &response.ListActionsRes{Total: 1, PerPage: req.PerPage, List: []*response.Action{{ID: 9}}}, nil
					})
			}
			w, body := serve(r, http.MethodGet, tt.target)
			assert.Equal(t, tt.want.status, w.Code)
			assert.Equal(t, tt.want.code, body.Code)
		})
	}
}

func TestListActionsResult(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	mock := srvaction.NewMockActionSrv(ctl)
	r := newTestRouter(t, mock)

	mock.EXPECT().List(gomock.Any(), gomock.Any()).Return(&response.ListActionsRes{
		Total:   2,
		PerPage: 5,
		List: []*response.Action{{
			ID:     42,
			Hook:   "send_mail",
			Args:   model.Args{"to": "a@b.c"},
			Status: model.StatusPending,
		}},
	}, nil)

	w, body := serve(r, http.MethodGet, "/v1/actions")
	require.Equal(t, http.StatusOK, w.Code)
	var result response.ListActionsRes
	require.NoError(t, json.Unmarshal(body.Result, &result))
	assert.EqualValues(t, 2, result.Total)
	require.Len(t, result.List, 1)
	assert.EqualValues(t, 42, result.List[0].ID)
	assert.Equal(t, model.StatusPending, result.List[0].Status)
	assert.Equal(t, "a@b.c", result.List[0].Args["to"])
}

func TestActionByID(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	mock := srvaction.NewMockActionSrv(ctl)
	r := newTestRouter(t, mock)

	mock.EXPECT().Get(gomock.Any(), int64(7)).Return(&response.Action{ID: 7, Hook: "h"}, nil)
	mock.EXPECT().Get(gomock.Any(), int64(8)).Return(nil, store.NotFound(8))
	mock.EXPECT().Cancel(gomock.Any(), int64(7)).Return(nil)
	mock.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)
	mock.EXPECT().Delete(gomock.Any(), int64(8)).Return(store.NotFound(8))

	tests := []struct {
		name   string
		method string
		target string
		status int
		code   string
	}{
		{name: "get", method: http.MethodGet, target: "/v1/actions/7", status: http.StatusOK, code: "200"},
		{name: "get_missing", method: http.MethodGet, target: "/v1/actions/8", status: http.StatusNotFound, code: "4042010001"},
		{name: "get_bad_id", method: http.MethodGet, target: "/v1/actions/abc", status: http.StatusBadRequest, code: "4000000001"},
		{name: "get_zero_id", method: http.MethodGet, target: "/v1/actions/0", status: http.StatusBadRequest, code: "4000000001"},
		{name: "cancel", method: http.MethodPost, target: "/v1/actions/7/cancel", status: http.StatusNoContent},
		{name: "delete", method: http.MethodDelete, target: "/v1/actions/7", status: http.StatusNoContent},
		{name: "delete_missing", method: http.MethodDelete, target: "/v1/actions/8", status: http.StatusNotFound, code: "4042010001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(r, tt.method, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestFindAndCounts(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	mock := srvaction.NewMockActionSrv(ctl)
	r := newTestRouter(t, mock)

	mock.EXPECT().Find(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req *request.FindActionReq) (*response.FindActionRes, error) {
			assert.Equal(t, "h", req.Hook)
			assert.Equal(t, `{"a":1}`, req.Args)
			return &response.FindActionRes{ID: 42}, nil
		})
	mock.EXPECT().Counts(gomock.Any()).Return(&response.ActionCountsRes{
		Counts: map[model.Status]int64{model.StatusPending: 3},
		Claims: 1,
	}, nil)

	w, body := serve(r, http.MethodGet, "/v1/find?hook=h&args=%7B%22a%22%3A1%7D")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42}`, string(body.Result))

	w, _ = serve(r, http.MethodGet, "/v1/find")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = serve(r, http.MethodGet, "/v1/counts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"counts":{"pending":3},"claims":1}`, string(body.Result))
}

func TestRecoveryAndMetrics(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	mock := srvaction.NewMockActionSrv(ctl)
	r := newTestRouter(t, mock)

	mock.EXPECT().Counts(gomock.Any()).DoAndReturn(func(interface{}) (*response.ActionCountsRes, error) {
		panic("boom")
	})
	w, body := serve(r, http.MethodGet, "/v1/counts")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "5000000000", body.Code)

	w, _ = serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = serve(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "actionstore_http_request_duration_seconds"))
}

func TestRateLimitOption(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(registry))
	r, err := New(fakeService{actions: srvaction.NewMockActionSrv(ctl)}, zap.NewNop(), registry,
		WithRateLimit(0.001, 1), WithCORS("*"))
	require.NoError(t, err)

	w, _ := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, body := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "4290000006", body.Code)
}
