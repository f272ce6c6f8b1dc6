package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsEncode(t *testing.T) {
	tests := []struct {
		name string
		args Args
		want string
	}{
		{name: "nil", args: nil, want: "{}"},
		{name: "empty", args: Args{}, want: "{}"},
		{name: "sorted", args: Args{"z": 1, "a": "x"}, want: `{"a":"x","z":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.args.Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	args, err := DecodeArgs(`{"id":9007199254740993,"name":"x"}`)
	require.NoError(t, err)
	assert.True(t, args.Equal(Args{"name": "x", "id": int64(9007199254740993)}))

	args, err = DecodeArgs("")
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = DecodeArgs("{")
	assert.Error(t, err)

	// key order is not kept, the stored form is the sorted one
	args, err = DecodeArgs(`{"b":1,"a":2}`)
	require.NoError(t, err)
	encoded, err := args.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, encoded)

	// positional args have no key to store them under
	_, err = DecodeArgs(`[1,2]`)
	assert.Error(t, err)
}

func TestSchedule(t *testing.T) {
	due := time.Date(2024, 3, 1, 12, 30, 15, 500, time.FixedZone("UTC+8", 8*3600))
	s := NewRecurringSchedule(due, "@hourly")
	assert.Equal(t, time.Date(2024, 3, 1, 4, 30, 15, 0, time.UTC), s.Date)
	assert.True(t, s.IsRecurring())

	data, err := EncodeSchedule(s)
	require.NoError(t, err)
	assert.True(t, s.Equal(DecodeSchedule(data)))

	assert.True(t, DecodeSchedule(nil).IsNull())
	assert.True(t, DecodeSchedule([]byte("not json")).IsNull())
	null, err := EncodeSchedule(NullSchedule())
	require.NoError(t, err)
	assert.True(t, DecodeSchedule(null).IsNull())
}

func TestWallClock(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	gmt := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	local := WallClock(gmt, loc)
	assert.Equal(t, time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC), local)
	assert.True(t, gmt.Equal(FromWallClock(local, loc)))
	assert.True(t, WallClock(time.Time{}, loc).IsZero())
}

func TestStatus(t *testing.T) {
	tests := []struct {
		status   Status
		valid    bool
		finished bool
		live     bool
	}{
		{status: StatusPending, valid: true, live: true},
		{status: StatusRunning, valid: true, live: true},
		{status: StatusComplete, valid: true, finished: true},
		{status: StatusFailed, valid: true, finished: true},
		{status: StatusCanceled, valid: true, finished: true},
		{status: "", valid: false},
		{status: "publish", valid: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.finished, tt.status.Finished())
			assert.Equal(t, tt.live, tt.status.Live())
		})
	}
}

func TestAction(t *testing.T) {
	null := NewNullAction()
	assert.True(t, null.IsNull())
	assert.False(t, null.IsFinished())
	assert.True(t, null.Schedule.IsNull())

	a := NewAction("hook", nil, NullSchedule(), "")
	assert.False(t, a.IsNull())
	assert.False(t, a.IsFinished())
	assert.True(t, NewFinishedAction("hook", nil, NullSchedule(), "").IsFinished())

	var missing *Action
	assert.True(t, missing.IsNull())
}

func TestClaim(t *testing.T) {
	ids := []int64{3, 4}
	c := NewClaim(9, ids)
	ids[0] = 100
	assert.Equal(t, []int64{3, 4}, c.ActionIDs())
	got := c.ActionIDs()
	got[1] = 100
	assert.Equal(t, []int64{3, 4}, c.ActionIDs())
	assert.Equal(t, int64(9), c.ID())
	assert.Equal(t, 2, c.Len())
}
