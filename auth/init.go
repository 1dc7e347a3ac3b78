package auth

import (
	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/jovidjumaev/fsas.github.io-sub002/config"
	"github.com/jovidjumaev/fsas.github.io-sub002/database"
)

type Auth struct {
	webAuthn *webauthn.WebAuthn
	store    *database.Store
}

func New(cfg config.WebAuthn, store *database.Store) (*Auth, error) {
	wconfig := &webauthn.Config{
		RPDisplayName: cfg.RPDisplayName,
		RPID:          cfg.RPID,
		RPOrigins:     cfg.RPOrigins,
	}
	w, err := webauthn.New(wconfig)
	if err != nil {
		return nil, err
	}
	return &Auth{webAuthn: w, store: store}, nil
}
