package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type comparatorReq struct {
	Compare string `form:"date_compare" binding:"omitempty,comparator"`
}

func TestComparator(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "empty", value: "", wantErr: false},
		{name: "less_equal", value: "<=", wantErr: false},
		{name: "not_equal", value: "!=", wantErr: false},
		{name: "greater", value: ">", wantErr: false},
		{name: "like", value: "LIKE", wantErr: true},
		{name: "injection", value: "= 1 OR 1", wantErr: true},
		{name: "double_equal", value: "==", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.ValidateStruct(&comparatorReq{Compare: tt.value})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTranslatedMessage(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	err = engine.ValidateStruct(comparatorReq{Compare: "~"})
	require.Error(t, err)
	assert.Equal(t, "Compare must be one of != > >= < <= =", err.Error())

	type required struct {
		Hook string `binding:"required"`
	}
	err = engine.ValidateStruct(required{})
	require.Error(t, err)
	assert.Equal(t, "Hook is a required field", err.Error())
}

func TestVar(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	assert.NoError(t, Var(engine, ">=", "comparator"))
	assert.Error(t, Var(engine, "=>", "comparator"))
}
