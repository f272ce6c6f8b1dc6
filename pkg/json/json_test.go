package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalToString(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{
			name:  "sorted keys",
			input: map[string]interface{}{"b": 2, "a": 1},
			want:  `{"a":1,"b":2}`,
		},
		{
			name:  "nil map",
			input: map[string]interface{}(nil),
			want:  `null`,
		},
		{
			name:  "empty map",
			input: map[string]interface{}{},
			want:  `{}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalToString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshalNumber(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, UnmarshalNumber([]byte(`{"id":18446744073709551615}`), &v))
	assert.Equal(t, "18446744073709551615", v["id"].(interface{ String() string }).String())
}
