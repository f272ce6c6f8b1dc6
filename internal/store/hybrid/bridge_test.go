package hybrid

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/migration"
	"github.com/crochee/actionstore/internal/model"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/internal/store/dbstore"
	"github.com/crochee/actionstore/internal/store/legacy"
	"github.com/crochee/actionstore/pkg/lockx"
	"github.com/crochee/actionstore/pkg/storage/sqlite"
)

var due = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	legacyDB  *sqlx.DB
	secondary *legacy.Store
	primary   *dbstore.Store
	runner    *migration.Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	ldb, err := legacy.Open(ctx, "sqlite3", "file:"+filepath.Join(dir, "legacy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ldb.Close() })
	secondary := legacy.New(ldb)
	require.NoError(t, secondary.Install(ctx))

	pdb, err := sqlite.New(ctx, filepath.Join(dir, "primary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pdb.Close() })
	primary := dbstore.New(pdb)
	require.NoError(t, primary.Migrate(ctx))

	return &fixture{
		legacyDB:  ldb,
		secondary: secondary,
		primary:   primary,
		runner:    migration.NewRunner(secondary, primary, migration.WithInterval(time.Millisecond)),
	}
}

// post inserts a non-action post, moving the legacy id sequence
func (f *fixture) post(t *testing.T, id int64) {
	t.Helper()
	_, err := f.legacyDB.Exec(`INSERT INTO wp_posts (ID, post_type, post_title, post_content, post_status)
		VALUES (?, 'page', '', '', 'publish')`, id)
	require.NoError(t, err)
}

func (f *fixture) legacyAction(t *testing.T, hook string, group string) int64 {
	t.Helper()
	id, err := f.secondary.SaveAction(context.Background(),
		model.NewAction(hook, model.Args{"hook": hook}, model.NewSchedule(due.Add(-time.Hour)), group), nil)
	require.NoError(t, err)
	return id
}

func (f *fixture) bridge(t *testing.T, migrator Migrator) *Bridge {
	t.Helper()
	ctx := context.Background()
	boundary, err := EnsureBoundaryInitialized(ctx, f.primary, f.secondary, lockx.NewLocal(), time.Second)
	require.NoError(t, err)
	if migrator == nil {
		migrator = f.runner
	}
	b, err := New(f.primary, f.secondary, migrator, boundary)
	require.NoError(t, err)
	return b
}

func TestLegacyActionIsMigratedByClaim(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.post(t, 41)
	id := f.legacyAction(t, "legacy_hook", "")
	require.Equal(t, int64(42), id)
	f.post(t, 99)

	b := f.bridge(t, nil)
	assert.Equal(t, int64(100), b.Boundary())
	assert.False(t, b.ActionInPrimaryStore(42))
	assert.True(t, b.ActionInPrimaryStore(100))

	action, err := b.FetchAction(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "legacy_hook", action.Hook)

	claim, err := b.StakeClaim(ctx, 10, due)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, claim.ActionIDs())

	inLegacy, err := f.secondary.FetchAction(ctx, 42)
	require.NoError(t, err)
	assert.True(t, inLegacy.IsNull())
	legacyClaims, err := f.secondary.GetClaimCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, legacyClaims)

	action, err = b.FetchAction(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "legacy_hook", action.Hook)
	claimID, err := b.GetClaimID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, claim.ID(), claimID)

	require.NoError(t, b.LogExecution(ctx, 42))
	status, err := b.GetStatus(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, status)
	require.NoError(t, b.MarkComplete(ctx, 42))
	last, err := b.GetLastAttempt(ctx, 42)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
	require.NoError(t, b.ReleaseClaim(ctx, claim))

	newID, err := b.SaveAction(ctx, model.NewAction("fresh", nil, model.NewSchedule(due), ""), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, newID, int64(100))

	again, err := EnsureBoundaryInitialized(ctx, f.primary, f.secondary, lockx.NewLocal(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(100), again)
}

func TestRouting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	legacyID := f.legacyAction(t, "old", "")
	b := f.bridge(t, nil)
	newID, err := b.SaveAction(ctx, model.NewAction("new", nil, model.NewSchedule(due), ""), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		id   int64
		hook string
	}{
		{name: "legacy", id: legacyID, hook: "old"},
		{name: "primary", id: newID, hook: "new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := b.FetchAction(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.hook, action.Hook)

			date, err := b.GetDateGMT(ctx, tt.id)
			require.NoError(t, err)
			assert.False(t, date.IsZero())
			_, err = b.GetDate(ctx, tt.id)
			require.NoError(t, err)
			_, err = b.GetLastAttemptLocal(ctx, tt.id)
			require.NoError(t, err)

			require.NoError(t, b.MarkFailure(ctx, tt.id))
			status, err := b.GetStatus(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, model.StatusFailed, status)

			require.NoError(t, b.CancelAction(ctx, tt.id))
			require.NoError(t, b.DeleteAction(ctx, tt.id))
			action, err = b.FetchAction(ctx, tt.id)
			require.NoError(t, err)
			assert.True(t, action.IsNull())
			assert.ErrorIs(t, b.CancelAction(ctx, tt.id), code.ErrActionNotFound)
		})
	}
}

func TestFindActionPullsForward(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.legacyAction(t, "find_me", "grp")

	ctl := gomock.NewController(t)
	defer ctl.Finish()
	migrator := NewMockMigrator(ctl)
	migrator.EXPECT().Migrate(gomock.Any(), []int64{id}).DoAndReturn(f.runner.Migrate).Times(1)
	b := f.bridge(t, migrator)

	found, err := b.FindAction(ctx, "find_me", &store.FindParams{Group: "grp"})
	require.NoError(t, err)
	assert.Equal(t, id, found)

	// the secondary has nothing left, so no second migration
	found, err = b.FindAction(ctx, "find_me", nil)
	require.NoError(t, err)
	assert.Equal(t, id, found)
}

func TestQueryActionsPullsForward(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.legacyAction(t, "q", "")
	second := f.legacyAction(t, "q", "")
	f.legacyAction(t, "q", "")

	ctl := gomock.NewController(t)
	defer ctl.Finish()
	migrator := NewMockMigrator(ctl)
	gomock.InOrder(
		migrator.EXPECT().Migrate(gomock.Any(), []int64{first, second}).DoAndReturn(f.runner.Migrate),
		migrator.EXPECT().Migrate(gomock.Any(), gomock.Len(1)).DoAndReturn(f.runner.Migrate),
	)
	b := f.bridge(t, migrator)

	page, err := b.QueryActions(ctx, &store.Query{Hook: "q", PerPage: 1, Offset: 1}, store.QuerySelect)
	require.NoError(t, err)
	assert.Equal(t, []int64{second}, page.IDs)

	count, err := b.QueryActions(ctx, &store.Query{Hook: "q"}, store.QueryCount)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count.Count)

	_, err = b.QueryActions(ctx, nil, store.QueryMode("bogus"))
	assert.ErrorIs(t, err, code.ErrInvalidQueryMode)
}

func TestCountPullsForwardOnePage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.legacyAction(t, "h", "")
	}

	ctl := gomock.NewController(t)
	defer ctl.Finish()
	migrator := NewMockMigrator(ctl)
	migrator.EXPECT().Migrate(gomock.Any(), gomock.Len(5)).DoAndReturn(f.runner.Migrate).Times(1)
	b := f.bridge(t, migrator)

	count, err := b.QueryActions(ctx, &store.Query{Hook: "h", PerPage: 5}, store.QueryCount)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count.Count)

	left, err := f.secondary.QueryActions(ctx, &store.Query{Hook: "h"}, store.QueryCount)
	require.NoError(t, err)
	assert.Equal(t, int64(7), left.Count)
}

func TestUpdateActionMigratesFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.legacyAction(t, "before", "")

	ctl := gomock.NewController(t)
	defer ctl.Finish()
	migrator := NewMockMigrator(ctl)
	gomock.InOrder(
		migrator.EXPECT().Migrate(gomock.Any(), []int64{id}).Return(code.ErrMigrate),
		migrator.EXPECT().Migrate(gomock.Any(), []int64{id}).DoAndReturn(f.runner.Migrate),
	)
	b := f.bridge(t, migrator)

	hook := "after"
	update := &store.ActionUpdate{Hook: &hook}
	assert.ErrorIs(t, b.UpdateAction(ctx, id, update), code.ErrMigrate)
	action, err := f.secondary.FetchAction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "before", action.Hook)

	require.NoError(t, b.UpdateAction(ctx, id, update))
	action, err = f.primary.FetchAction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", action.Hook)
}

func TestActionCountsSpanBothStores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.legacyAction(t, "a", "")
	b := f.bridge(t, nil)
	_, err := b.SaveAction(ctx, model.NewAction("b", nil, model.NewSchedule(due), ""), nil)
	require.NoError(t, err)

	counts, err := b.ActionCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.StatusPending])
}

func TestBoundary(t *testing.T) {
	ctx := context.Background()

	_, err := New(nil, nil, nil, 0)
	assert.ErrorIs(t, err, code.ErrBoundary)

	f := newFixture(t)
	f.legacyAction(t, "a", "")
	f.legacyAction(t, "b", "")
	_, err = f.primary.SaveAction(ctx, model.NewAction("early", nil, model.NewSchedule(due), ""), nil)
	require.NoError(t, err)

	_, err = EnsureBoundaryInitialized(ctx, f.primary, f.secondary, lockx.NewLocal(), time.Second)
	assert.ErrorIs(t, err, code.ErrBoundary)

	empty := newFixture(t)
	boundary, err := EnsureBoundaryInitialized(ctx, empty.primary, empty.secondary, lockx.NewLocal(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), boundary)
}
