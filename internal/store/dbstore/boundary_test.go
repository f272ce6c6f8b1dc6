package dbstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crochee/actionstore/internal/model"
)

func TestBoundary(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	boundary, err := s.LoadBoundary(ctx)
	require.NoError(t, err)
	assert.Zero(t, boundary)

	require.NoError(t, s.SaveBoundary(ctx, 50))
	require.NoError(t, s.SaveBoundary(ctx, 100))
	boundary, err = s.LoadBoundary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), boundary)

	max, err := s.MaxActionID(ctx)
	require.NoError(t, err)
	assert.Zero(t, max)

	require.NoError(t, s.SeedActionID(ctx, 100))
	max, err = s.MaxActionID(ctx)
	require.NoError(t, err)
	assert.Zero(t, max, "placeholder is removed")

	id := save(t, s, "hook", nil, base, "")
	assert.GreaterOrEqual(t, id, int64(100))
}

func TestImportAction(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	rec := &model.Record{
		ID:            42,
		Action:        model.NewAction("legacy", model.Args{"x": "y"}, model.NewRecurringSchedule(base, "daily"), "old"),
		ScheduledDate: base.Add(time.Minute),
		Attempts:      2,
		ClaimID:       9,
		LastAttempt:   base.Add(-time.Hour),
	}
	rec.Action.Status = model.StatusRunning

	imported, err := s.ImportAction(ctx, rec)
	require.NoError(t, err)
	assert.True(t, imported)

	imported, err = s.ImportAction(ctx, rec)
	require.NoError(t, err)
	assert.False(t, imported)

	got, err := s.ExportAction(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "legacy", got.Action.Hook)
	assert.Equal(t, "old", got.Action.Group)
	assert.Equal(t, model.StatusRunning, got.Action.Status)
	assert.True(t, rec.Action.Args.Equal(got.Action.Args))
	assert.True(t, rec.Action.Schedule.Equal(got.Action.Schedule))
	assert.True(t, rec.ScheduledDate.Equal(got.ScheduledDate))
	assert.True(t, rec.LastAttempt.Equal(got.LastAttempt))
	assert.Equal(t, 2, got.Attempts)
	assert.Zero(t, got.ClaimID)

	_, err = s.ImportAction(ctx, &model.Record{ID: 43, Action: model.NewNullAction()})
	assert.Error(t, err)
}
