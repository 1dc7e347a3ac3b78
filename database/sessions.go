package database

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
)

func (s *Store) CreateClassSession(ctx context.Context, session *models.ClassSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return pkgerrors.Wrap(err, "store.CreateClassSession")
	}
	return nil
}

// GetSession returns qrtoken.ErrSessionNotFound for unknown ids so the
// validator can distinguish them from store outages.
func (s *Store) GetSession(ctx context.Context, id string) (*models.ClassSession, error) {
	var session models.ClassSession
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, qrtoken.ErrSessionNotFound
		}
		return nil, pkgerrors.Wrap(err, "store.GetSession")
	}
	return &session, nil
}

// CloseSession deactivates a session. Closing an already-closed session is
// a no-op.
func (s *Store) CloseSession(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).
		Model(&models.ClassSession{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		return pkgerrors.Wrap(err, "store.CloseSession")
	}
	return nil
}

// CloseStaleSessions deactivates every active session whose scheduled end
// has passed. Returns how many were closed.
func (s *Store) CloseStaleSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.ClassSession{}).
		Where("active = ? AND scheduled_end < ?", true, now).
		Update("active", false)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "store.CloseStaleSessions")
	}
	return res.RowsAffected, nil
}
