package models

import "time"

// Token is the externally visible attendance credential. It is never
// persisted; it lives only between the teacher display and the scanning
// client, JSON-serialized inside the QR code.
type Token struct {
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Nonce     string `json:"nonce"`     // hex
	Signature string `json:"signature"` // hex HMAC-SHA256
}

// ExpiresAt is display-side information only. Validation recomputes
// freshness from Timestamp and never trusts this value.
func (t Token) ExpiresAt(ttl time.Duration) int64 {
	return t.Timestamp + ttl.Milliseconds()
}
