package code

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFroze(t *testing.T) {
	type args struct {
		code    string
		message string
	}
	tests := []struct {
		name       string
		args       args
		want       ErrorCode
		statusCode int
	}{
		{
			name: "service prefix",
			args: args{
				code:    "DSF.4000000001",
				message: "",
			},
			want:       ErrInvalidParam,
			statusCode: http.StatusBadRequest,
		},
		{
			name: "plain",
			args: args{
				code:    "4040000002",
				message: "",
			},
			want:       ErrNotFound,
			statusCode: http.StatusNotFound,
		},
		{
			name: "short code falls back",
			args: args{
				code:    "404",
				message: "",
			},
			want:       Froze("5000000001", ""),
			statusCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Froze(tt.args.code, tt.args.message)
			assert.True(t, errors.Is(got, tt.want), "Froze() = %v, want %v", got, tt.want)
			assert.Equal(t, tt.statusCode, got.StatusCode())
		})
	}
}

func TestFrom(t *testing.T) {
	err := pkgerrors.WithStack(ErrNotFound.WithResult("id 7"))
	got, ok := From(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, got.StatusCode())
	assert.Equal(t, "id 7", got.Result())
	assert.True(t, errors.Is(err, ErrNotFound))

	got, ok = From(errors.New("boom"))
	assert.False(t, ok)
	assert.True(t, errors.Is(got, ErrCodeUnknown))
}

func TestAddCode(t *testing.T) {
	require.NoError(t, AddCode(map[ErrorCode]struct{}{
		Froze("4041100000", "missing"): {},
	}))
	err := AddCode(map[ErrorCode]struct{}{
		Froze("4041100002", "dup"):  {},
		Froze("5001100002", "dup2"): {},
	})
	assert.Error(t, err)
	assert.Error(t, AddCode(map[ErrorCode]struct{}{
		Froze("40411000", "short"): {},
	}))
}
