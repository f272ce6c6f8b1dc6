package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		attempts  int
		failUntil int
		permanent bool
		wantCalls int
		wantErr   bool
	}{
		{name: "first try", attempts: 3, failUntil: 0, wantCalls: 1},
		{name: "recovers", attempts: 3, failUntil: 2, wantCalls: 3},
		{name: "gives up", attempts: 3, failUntil: 10, wantCalls: 3, wantErr: true},
		{name: "permanent", attempts: 3, failUntil: 10, permanent: true, wantCalls: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), func() error {
				calls++
				if calls <= tt.failUntil {
					if tt.permanent {
						return Permanent(boom)
					}
					return boom
				}
				return nil
			}, WithAttempt(tt.attempts), WithInterval(time.Millisecond))
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, boom)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDoNotify(t *testing.T) {
	var notified int
	_ = Do(context.Background(), func() error { return errors.New("x") },
		WithAttempt(2), WithInterval(time.Millisecond),
		WithNotify(func(error, time.Duration) { notified++ }))
	assert.Equal(t, 1, notified)
}
