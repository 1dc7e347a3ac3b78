package database

import (
	"context"
	"log"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
)

// ValidateFingerprint checks a browser fingerprint against the first one
// seen for the SRN, creating the binding on first sight. The result is
// advisory; callers log mismatches but still record the scan.
func (s *Store) ValidateFingerprint(ctx context.Context, srn string, fingerprint string) (bool, error) {
	var student models.UserFingerprint
	err := s.db.WithContext(ctx).First(&student, "srn = ?", srn).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Creating new fingerprint for SRN", srn)
			student = models.UserFingerprint{
				SRN:                srn,
				BrowserFingerprint: fingerprint,
			}
			if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
				return false, pkgerrors.Wrap(err, "store.ValidateFingerprint")
			}
			return true, nil
		}
		return false, pkgerrors.Wrap(err, "store.ValidateFingerprint")
	}

	return student.BrowserFingerprint == fingerprint, nil
}
