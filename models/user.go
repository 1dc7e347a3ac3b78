package models

import (
	"gorm.io/gorm"

	"github.com/go-webauthn/webauthn/webauthn"
)

// User is a student identified by SRN, with their passkey credentials.
type User struct {
	gorm.Model
	SRN         string                `json:"SRN" gorm:"uniqueIndex"`
	Credentials []webauthn.Credential `json:"credentials" gorm:"serializer:json"`
}

func (u User) WebAuthnID() []byte {
	return []byte(u.SRN)
}

func (u User) WebAuthnName() string {
	return u.SRN
}

func (u User) WebAuthnDisplayName() string {
	return u.SRN
}

func (u User) WebAuthnCredentials() []webauthn.Credential {
	return u.Credentials
}

func (u User) WebAuthnIcon() string {
	return ""
}

// UserFingerprint binds an SRN to the first browser fingerprint it was seen
// with. The binding is advisory: mismatches are recorded, not rejected.
type UserFingerprint struct {
	gorm.Model
	SRN                string `json:"SRN" gorm:"index"`
	BrowserFingerprint string `json:"browserFingerprint"`
}
