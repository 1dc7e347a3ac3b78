package qrtoken

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
)

// Store sentinels. Implementations return these so the validator can tell
// "no row" apart from "store is down".
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrDuplicateRedemption = errors.New("redemption already exists")
)

type SessionStore interface {
	GetSession(ctx context.Context, id string) (*models.ClassSession, error)
}

type RedemptionStore interface {
	HasRedemption(ctx context.Context, sessionID, studentSRN string) (bool, error)
	// CreateRedemption must enforce (session, student) uniqueness itself and
	// return ErrDuplicateRedemption on conflict; the validator's lookup is
	// not a sufficient guard under concurrency.
	CreateRedemption(ctx context.Context, record *models.AttendanceRecord) error
}

// ScanContext is the per-scan evidence recorded alongside a redemption.
type ScanContext struct {
	DeviceFingerprint string
	NetworkAddress    string
	Now               time.Time // zero means time.Now
}

const (
	DefaultSkewTolerance = 2 * time.Second
	DefaultGraceWindow   = 10 * time.Minute
)

// Validator decides one scan attempt. The checks run in a fixed order and
// the first failure wins, so the student sees the specific reason rather
// than a generic rejection.
type Validator struct {
	secret      []byte
	ttl         time.Duration
	skew        time.Duration
	grace       time.Duration
	sessions    SessionStore
	redemptions RedemptionStore
}

func NewValidator(secret []byte, ttl, skew, grace time.Duration, sessions SessionStore, redemptions RedemptionStore) *Validator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if skew <= 0 {
		skew = DefaultSkewTolerance
	}
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	return &Validator{
		secret:      secret,
		ttl:         ttl,
		skew:        skew,
		grace:       grace,
		sessions:    sessions,
		redemptions: redemptions,
	}
}

// Validate runs the ordered checks: shape, freshness, signature, session
// state, replay, status, commit. On success the persisted record is
// returned; on failure the error is a *RejectionError.
func (v *Validator) Validate(ctx context.Context, token models.Token, studentSRN string, scan ScanContext) (*models.AttendanceRecord, error) {
	if err := checkShape(token, studentSRN); err != nil {
		return nil, err
	}

	now := scan.Now
	if now.IsZero() {
		now = time.Now()
	}

	age := now.UnixMilli() - token.Timestamp
	if age > v.ttl.Milliseconds() {
		return nil, ErrExpired
	}
	if age < -v.skew.Milliseconds() {
		return nil, ErrFromFuture
	}

	if !VerifySignature(v.secret, token.SessionID, token.Timestamp, token.Nonce, token.Signature) {
		return nil, ErrInvalidSignature
	}

	session, err := v.sessions.GetSession(ctx, token.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotActive
		}
		return nil, rejectWrap(CodeStoreUnavailable, "could not look up session", err)
	}
	if !session.Active {
		return nil, ErrSessionNotActive
	}

	exists, err := v.redemptions.HasRedemption(ctx, token.SessionID, studentSRN)
	if err != nil {
		return nil, rejectWrap(CodeStoreUnavailable, "could not check prior attendance", err)
	}
	if exists {
		return nil, ErrAlreadyRecorded
	}

	status := models.StatusPresent
	if now.After(session.ScheduledStart.Add(v.grace)) {
		status = models.StatusLate
	}

	record := &models.AttendanceRecord{
		SessionID:         token.SessionID,
		StudentSRN:        studentSRN,
		RedeemedAt:        now,
		Status:            status,
		DeviceFingerprint: scan.DeviceFingerprint,
		NetworkAddress:    scan.NetworkAddress,
	}
	if err := v.redemptions.CreateRedemption(ctx, record); err != nil {
		if errors.Is(err, ErrDuplicateRedemption) {
			// lost the race to a concurrent scan by the same student
			return nil, ErrAlreadyRecorded
		}
		return nil, rejectWrap(CodeStoreUnavailable, "could not record attendance", err)
	}
	return record, nil
}

func checkShape(token models.Token, studentSRN string) error {
	if studentSRN == "" {
		return reject(CodeMalformedToken, "missing student identity")
	}
	if token.SessionID == "" || token.Nonce == "" || token.Signature == "" || token.Timestamp <= 0 {
		return reject(CodeMalformedToken, "code payload is incomplete")
	}
	if _, err := hex.DecodeString(token.Nonce); err != nil {
		return reject(CodeMalformedToken, "code payload is corrupted")
	}
	return nil
}
