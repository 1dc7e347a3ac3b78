package qrtoken

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
)

const (
	// DefaultTTL bounds how long a displayed code stays redeemable. The
	// display refreshes on the same cadence; the validator enforces it.
	DefaultTTL = 30 * time.Second

	nonceBytes    = 16
	DefaultQRSize = 512
)

// Issuer mints signed, time-boxed tokens for a session. Stateless apart
// from the secret; safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue mints a fresh token bound to sessionID. The caller guarantees the
// session exists and is active; issuance itself never consults the store.
func (i *Issuer) Issue(sessionID string) (models.Token, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return models.Token{}, errors.Wrap(err, "issuer: nonce generation failed")
	}
	nonce := hex.EncodeToString(buf)
	ts := i.now().UnixMilli()

	return models.Token{
		SessionID: sessionID,
		Timestamp: ts,
		Nonce:     nonce,
		Signature: Sign(i.secret, sessionID, ts, nonce),
	}, nil
}

// IssuedCode is what the teacher display renders: the token, its advisory
// expiry, and the QR PNG encoding the JSON-serialized token.
type IssuedCode struct {
	Token     models.Token `json:"token"`
	ExpiresAt int64        `json:"expiresAt"` // epoch ms, display only
	PNG       []byte       `json:"-"`
}

// IssueCode issues a token and renders it as a QR PNG of the given pixel
// size (0 means DefaultQRSize).
func (i *Issuer) IssueCode(sessionID string, size int) (*IssuedCode, error) {
	token, err := i.Issue(sessionID)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(token)
	if err != nil {
		return nil, errors.Wrap(err, "issuer: token encoding failed")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "issuer: qr rendering failed")
	}
	return &IssuedCode{
		Token:     token,
		ExpiresAt: token.ExpiresAt(i.ttl),
		PNG:       png,
	}, nil
}
