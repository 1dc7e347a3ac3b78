package database

import (
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
)

// Store wraps the sqlite database behind the session, redemption, user and
// fingerprint operations the rest of the app needs.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	if !strings.Contains(dsn, "_busy_timeout") && !strings.Contains(dsn, "memory") {
		if strings.Contains(dsn, "?") {
			dsn += "&_busy_timeout=5000"
		} else {
			dsn += "?_busy_timeout=5000"
		}
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "database.Open")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.UserFingerprint{},
		&models.ClassSession{},
		&models.AttendanceRecord{},
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "database.Open.AutoMigrate")
	}
	return &Store{db: db}, nil
}
