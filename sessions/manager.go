package sessions

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jovidjumaev/fsas.github.io-sub002/database"
	"github.com/jovidjumaev/fsas.github.io-sub002/models"
)

// Manager owns class-session lifecycle. Sessions are persisted so a
// restart does not orphan in-flight attendance.
type Manager struct {
	store *database.Store
}

func NewManager(store *database.Store) *Manager {
	return &Manager{store: store}
}

// Create opens a new active session. A zero start means now; a zero end
// means one hour after start.
func (m *Manager) Create(ctx context.Context, courseCode string, start, end time.Time) (*models.ClassSession, error) {
	if start.IsZero() {
		start = time.Now()
	}
	if end.IsZero() {
		end = start.Add(time.Hour)
	}
	session := &models.ClassSession{
		ID:             uuid.NewString(),
		CourseCode:     courseCode,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Active:         true,
	}
	if err := m.store.CreateClassSession(ctx, session); err != nil {
		return nil, err
	}
	log.Println("Created new session with ID:", session.ID)
	return session, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*models.ClassSession, error) {
	return m.store.GetSession(ctx, id)
}

func (m *Manager) Close(ctx context.Context, id string) error {
	return m.store.CloseSession(ctx, id)
}

func (m *Manager) Attendance(ctx context.Context, id string) ([]models.AttendanceRecord, error) {
	return m.store.ListAttendance(ctx, id)
}

// CloseStale sweeps sessions whose scheduled end has passed. Called
// opportunistically; an active-but-overdue session still validates as late
// until this runs or the teacher closes it.
func (m *Manager) CloseStale(ctx context.Context) {
	n, err := m.store.CloseStaleSessions(ctx, time.Now())
	if err != nil {
		log.Println("Failed to close stale sessions:", err)
		return
	}
	if n > 0 {
		log.Println("Closed", n, "stale sessions")
	}
}
