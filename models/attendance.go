package models

import "time"

const (
	StatusPresent = "present"
	StatusLate    = "late"
)

// ClassSession is one sitting of a class that students mark attendance for.
type ClassSession struct {
	ID             string `gorm:"primaryKey"`
	CourseCode     string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Active         bool `gorm:"index"`
	CreatedAt      time.Time
}

// AttendanceRecord is one successful redemption. The composite unique index
// is what actually enforces one redemption per (session, student) — the
// validator's pre-insert lookup only exists to report duplicates early.
type AttendanceRecord struct {
	ID                uint   `gorm:"primaryKey"`
	SessionID         string `gorm:"uniqueIndex:idx_session_student;not null"`
	StudentSRN        string `gorm:"uniqueIndex:idx_session_student;not null"`
	RedeemedAt        time.Time
	Status            string
	DeviceFingerprint string
	NetworkAddress    string
}
