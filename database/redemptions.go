package database

import (
	"context"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
)

func (s *Store) HasRedemption(ctx context.Context, sessionID, studentSRN string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("session_id = ? AND student_srn = ?", sessionID, studentSRN).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "store.HasRedemption")
	}
	return count > 0, nil
}

// CreateRedemption inserts the record, relying on the composite unique index
// to serialize concurrent scans by the same student. A constraint violation
// comes back as qrtoken.ErrDuplicateRedemption.
func (s *Store) CreateRedemption(ctx context.Context, record *models.AttendanceRecord) error {
	err := s.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if isDuplicate(err) {
			return qrtoken.ErrDuplicateRedemption
		}
		return pkgerrors.Wrap(err, "store.CreateRedemption")
	}
	return nil
}

func (s *Store) ListAttendance(ctx context.Context, sessionID string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("redeemed_at asc").
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "store.ListAttendance")
	}
	return records, nil
}

func isDuplicate(err error) bool {
	if pkgerrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// the sqlite driver does not translate every conflict shape
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
