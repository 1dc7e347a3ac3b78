package qrtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// canonicalString is the exact byte sequence both sides sign. The validator
// recomputes it from the received fields, so nothing outside these three
// values participates in authentication.
func canonicalString(sessionID string, timestamp int64, nonce string) string {
	return fmt.Sprintf("%s|%d|%s", sessionID, timestamp, nonce)
}

// Sign computes the hex HMAC-SHA256 of the canonical string under the
// server's static QR secret.
func Sign(secret []byte, sessionID string, timestamp int64, nonce string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(canonicalString(sessionID, timestamp, nonce)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the MAC and compares in constant time.
// A signature that does not decode as hex can never verify.
func VerifySignature(secret []byte, sessionID string, timestamp int64, nonce, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(canonicalString(sessionID, timestamp, nonce)))
	return hmac.Equal(got, mac.Sum(nil))
}
