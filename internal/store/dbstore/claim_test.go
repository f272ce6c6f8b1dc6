package dbstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/model"
)

func TestStakeClaim(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	due := save(t, s, "a", nil, base.Add(-time.Hour), "")
	retried := save(t, s, "b", nil, base.Add(-2*time.Hour), "")
	future := save(t, s, "c", nil, base.Add(time.Hour), "")
	done := save(t, s, "d", nil, base.Add(-time.Hour), "")
	require.NoError(t, s.MarkComplete(ctx, done))
	require.NoError(t, s.conn(ctx).Exec("UPDATE "+model.ActionTable+" SET attempts = 3 WHERE action_id = ?", retried).Error)

	claim, err := s.StakeClaim(ctx, 1, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []int64{due}, claim.ActionIDs(), "fewest attempts first")

	claimID, err := s.GetClaimID(ctx, due)
	require.NoError(t, err)
	assert.Equal(t, claim.ID(), claimID)

	last, err := s.GetLastAttempt(ctx, due)
	require.NoError(t, err)
	assert.True(t, base.Equal(last))

	rest, err := s.StakeClaim(ctx, 0, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []int64{retried}, rest.ActionIDs())
	assert.NotEqual(t, claim.ID(), rest.ID())

	later, err := s.StakeClaim(ctx, 10, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []int64{future}, later.ActionIDs())

	count, err := s.GetClaimCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	empty, err := s.StakeClaim(ctx, 10, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestStakeClaimConcurrent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	const total = 40
	for i := 0; i < total; i++ {
		save(t, s, "hook", model.Args{"i": i}, base.Add(-time.Minute), "")
	}

	var (
		mu   sync.Mutex
		seen = map[int64]int64{}
		wg   sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim, err := s.StakeClaim(ctx, 7, time.Time{})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range claim.ActionIDs() {
				_, dup := seen[id]
				assert.False(t, dup, "action %d claimed twice", id)
				seen[id] = claim.ID()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, total)
}

func TestReleaseClaim(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	first := save(t, s, "a", nil, base, "")
	second := save(t, s, "b", nil, base, "")

	claim, err := s.StakeClaim(ctx, 10, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2, claim.Len())

	require.NoError(t, s.UnclaimAction(ctx, first))
	ids, err := s.FindActionsByClaimID(ctx, claim.ID())
	require.NoError(t, err)
	assert.Equal(t, []int64{second}, ids)

	require.NoError(t, s.ReleaseClaim(ctx, claim))
	require.NoError(t, s.ReleaseClaim(ctx, claim))
	require.NoError(t, s.ReleaseClaim(ctx, nil))

	ids, err = s.FindActionsByClaimID(ctx, claim.ID())
	require.NoError(t, err)
	assert.Empty(t, ids)
	count, err := s.GetClaimCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	var rows int64
	require.NoError(t, s.conn(ctx).Model(&model.ClaimRow{}).Count(&rows).Error)
	assert.Zero(t, rows)

	ids, err = s.FindActionsByClaimID(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{}, ids)
}

func TestClaimCountIgnoresFinished(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	id := save(t, s, "a", nil, base, "")
	_, err := s.StakeClaim(ctx, 10, time.Time{})
	require.NoError(t, err)

	require.NoError(t, s.LogExecution(ctx, id))
	count, err := s.GetClaimCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.MarkComplete(ctx, id))
	count, err = s.GetClaimCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStakeClaimFailure(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, WithName("claim_failure"))
	save(t, s, "hook", nil, base, "")
	require.NoError(t, s.db.Close())

	claim, err := s.StakeClaim(ctx, 5, base)
	assert.Nil(t, claim)
	assert.ErrorIs(t, err, code.ErrClaimFailed)
	assert.NotErrorIs(t, err, code.ErrStorage)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.StorageErrors.WithLabelValues("claim_failure", "generate_claim")))
}
