package lockx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	first, err := l.Obtain(ctx, "bootstrap", time.Second)
	require.NoError(t, err)

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Obtain(timeout, "bootstrap", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := l.Obtain(ctx, "other", time.Second)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, first.Release(ctx))
	require.NoError(t, first.Release(ctx))

	second, err := l.Obtain(ctx, "bootstrap", time.Second)
	require.NoError(t, err)
	require.NoError(t, second.Release(ctx))
}
