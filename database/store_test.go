package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return store
}

func seedSession(t *testing.T, store *Store, id string, active bool) {
	t.Helper()
	start := time.Now().Add(-time.Minute)
	err := store.CreateClassSession(context.Background(), &models.ClassSession{
		ID:             id,
		CourseCode:     "CS-101",
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
		Active:         active,
	})
	require.NoError(t, err)
}

func TestStore_Sessions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		seedSession(t, store, "sess-1", true)
		got, err := store.GetSession(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, "CS-101", got.CourseCode)
		assert.True(t, got.Active)
	})

	t.Run("unknown id is the not-found sentinel", func(t *testing.T) {
		_, err := store.GetSession(ctx, "nope")
		assert.ErrorIs(t, err, qrtoken.ErrSessionNotFound)
	})

	t.Run("close deactivates", func(t *testing.T) {
		require.NoError(t, store.CloseSession(ctx, "sess-1"))
		got, err := store.GetSession(ctx, "sess-1")
		require.NoError(t, err)
		assert.False(t, got.Active)

		// closing again is a no-op
		require.NoError(t, store.CloseSession(ctx, "sess-1"))
	})

	t.Run("stale sweep only touches overdue sessions", func(t *testing.T) {
		err := store.CreateClassSession(ctx, &models.ClassSession{
			ID:             "sess-overdue",
			ScheduledStart: time.Now().Add(-2 * time.Hour),
			ScheduledEnd:   time.Now().Add(-time.Hour),
			Active:         true,
		})
		require.NoError(t, err)
		seedSession(t, store, "sess-current", true)

		n, err := store.CloseStaleSessions(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := store.GetSession(ctx, "sess-current")
		require.NoError(t, err)
		assert.True(t, got.Active)
	})
}

func TestStore_Redemptions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedSession(t, store, "sess-1", true)

	record := func(srn string) *models.AttendanceRecord {
		return &models.AttendanceRecord{
			SessionID:  "sess-1",
			StudentSRN: srn,
			RedeemedAt: time.Now(),
			Status:     models.StatusPresent,
		}
	}

	t.Run("insert then lookup", func(t *testing.T) {
		exists, err := store.HasRedemption(ctx, "sess-1", "SRN001")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, store.CreateRedemption(ctx, record("SRN001")))

		exists, err = store.HasRedemption(ctx, "sess-1", "SRN001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate insert hits the unique index", func(t *testing.T) {
		err := store.CreateRedemption(ctx, record("SRN001"))
		assert.ErrorIs(t, err, qrtoken.ErrDuplicateRedemption)

		records, err := store.ListAttendance(ctx, "sess-1")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("same student different session is fine", func(t *testing.T) {
		seedSession(t, store, "sess-2", true)
		err := store.CreateRedemption(ctx, &models.AttendanceRecord{
			SessionID:  "sess-2",
			StudentSRN: "SRN001",
			RedeemedAt: time.Now(),
			Status:     models.StatusLate,
		})
		assert.NoError(t, err)
	})

	t.Run("concurrent inserts accept exactly one", func(t *testing.T) {
		const n = 4
		var wg sync.WaitGroup
		results := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- store.CreateRedemption(ctx, record("SRN-RACE"))
			}()
		}
		wg.Wait()
		close(results)

		accepted := 0
		for err := range results {
			if err == nil {
				accepted++
			} else {
				assert.ErrorIs(t, err, qrtoken.ErrDuplicateRedemption)
			}
		}
		assert.Equal(t, 1, accepted)
	})

	t.Run("list is ordered by redemption time", func(t *testing.T) {
		records, err := store.ListAttendance(ctx, "sess-1")
		require.NoError(t, err)
		for i := 1; i < len(records); i++ {
			assert.False(t, records[i].RedeemedAt.Before(records[i-1].RedeemedAt))
		}
	})
}

func TestStore_ValidateFingerprint(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	t.Run("first sight creates the binding", func(t *testing.T) {
		ok, err := store.ValidateFingerprint(ctx, "SRN001", "fp-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("same fingerprint stays valid", func(t *testing.T) {
		ok, err := store.ValidateFingerprint(ctx, "SRN001", "fp-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("different fingerprint flags mismatch", func(t *testing.T) {
		ok, err := store.ValidateFingerprint(ctx, "SRN001", "fp-2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
