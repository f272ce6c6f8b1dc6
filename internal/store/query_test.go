package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/model"
)

func TestComparator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "<="},
		{in: "<=", want: "<="},
		{in: ">=", want: ">="},
		{in: "!=", want: "!="},
		{in: "<", want: "<"},
		{in: ">", want: ">"},
		{in: "=", want: "="},
		{in: "LIKE", want: "="},
		{in: "; DROP TABLE", want: "="},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Comparator(tt.in))
		})
	}
}

func TestQueryModeValidate(t *testing.T) {
	assert.NoError(t, QuerySelect.Validate())
	assert.NoError(t, QueryCount.Validate())
	err := QueryMode("ids").Validate()
	assert.True(t, errors.Is(err, code.ErrInvalidQueryMode))
}

func TestQueryOrdering(t *testing.T) {
	tests := []struct {
		name   string
		query  Query
		column string
		desc   bool
	}{
		{name: "defaults", query: Query{}, column: OrderByDate},
		{name: "hook desc", query: Query{OrderBy: "hook", Order: "desc"}, column: OrderByHook, desc: true},
		{name: "unknown column", query: Query{OrderBy: "attempts", Order: "ASC"}, column: OrderByDate},
		{name: "garbage order", query: Query{OrderBy: "group", Order: "sideways"}, column: OrderByGroup, desc: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.column, tt.query.SortColumn())
			assert.Equal(t, tt.desc, tt.query.Descending())
		})
	}
}

func TestFindStatus(t *testing.T) {
	var p *FindParams
	assert.Equal(t, model.StatusPending, p.FindStatus())
	assert.Equal(t, model.StatusComplete, (&FindParams{Status: model.StatusComplete}).FindStatus())
	assert.Equal(t, model.Status(""), (&FindParams{Status: AnyStatus}).FindStatus())

	assert.True(t, p.Earliest())
	assert.True(t, (&FindParams{Status: AnyStatus}).Earliest())
	assert.False(t, (&FindParams{Status: model.StatusFailed}).Earliest())
}

func TestActionUpdateEmpty(t *testing.T) {
	var u *ActionUpdate
	assert.True(t, u.Empty())
	hook := "h"
	assert.False(t, (&ActionUpdate{Hook: &hook}).Empty())
}
