package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jovidjumaev/fsas.github.io-sub002/database"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
	"github.com/jovidjumaev/fsas.github.io-sub002/sessions"
)

// storeTimeout bounds every store round-trip made on behalf of a request.
const storeTimeout = 5 * time.Second

type Handlers struct {
	issuer    *qrtoken.Issuer
	validator *qrtoken.Validator
	manager   *sessions.Manager
	store     *database.Store
	upgrader  websocket.Upgrader
}

func New(issuer *qrtoken.Issuer, validator *qrtoken.Validator, manager *sessions.Manager, store *database.Store, allowedOrigins []string) *Handlers {
	return &Handlers{
		issuer:    issuer,
		validator: validator,
		manager:   manager,
		store:     store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}
