package sessions

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jovidjumaev/fsas.github.io-sub002/database"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewManager(store)
}

func TestManager_Lifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	t.Run("create defaults the schedule", func(t *testing.T) {
		before := time.Now()
		session, err := m.Create(ctx, "CS-101", time.Time{}, time.Time{})
		require.NoError(t, err)

		assert.NotEmpty(t, session.ID)
		assert.True(t, session.Active)
		assert.False(t, session.ScheduledStart.Before(before.Add(-time.Second)))
		assert.Equal(t, session.ScheduledStart.Add(time.Hour), session.ScheduledEnd)

		got, err := m.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, "CS-101", got.CourseCode)
	})

	t.Run("close then attendance still readable", func(t *testing.T) {
		session, err := m.Create(ctx, "CS-101", time.Time{}, time.Time{})
		require.NoError(t, err)

		require.NoError(t, m.Close(ctx, session.ID))
		got, err := m.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)

		records, err := m.Attendance(ctx, session.ID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("ids are unique across sessions", func(t *testing.T) {
		a, err := m.Create(ctx, "CS-101", time.Time{}, time.Time{})
		require.NoError(t, err)
		b, err := m.Create(ctx, "CS-101", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
