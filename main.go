package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jovidjumaev/fsas.github.io-sub002/auth"
	"github.com/jovidjumaev/fsas.github.io-sub002/config"
	"github.com/jovidjumaev/fsas.github.io-sub002/database"
	"github.com/jovidjumaev/fsas.github.io-sub002/handlers"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
	"github.com/jovidjumaev/fsas.github.io-sub002/sessions"
)

func main() {
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal(err)
	}

	store, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}

	secret := []byte(cfg.QR.Secret)
	issuer := qrtoken.NewIssuer(secret, cfg.QR.TTL)
	validator := qrtoken.NewValidator(secret, cfg.QR.TTL, cfg.QR.SkewTolerance, cfg.QR.GraceWindow, store, store)
	manager := sessions.NewManager(store)

	authn, err := auth.New(cfg.WebAuthn, store)
	if err != nil {
		log.Fatal(err)
	}

	h := handlers.New(issuer, validator, manager, store, cfg.Server.AllowedOrigins)

	// sweep sessions whose scheduled end has passed
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			manager.CloseStale(ctx)
			cancel()
		}
	}()

	router := gin.Default()
	router.GET("/create-attendance-session", h.CreateSession)
	router.GET("/scan-qr", h.StudentScan)
	router.POST("/redeem", h.Redeem)

	router.POST("/sessions", h.CreateSessionHTTP)
	router.GET("/sessions/:id/code", h.SessionCode)
	router.POST("/sessions/:id/close", h.CloseSession)
	router.GET("/sessions/:id/attendance", h.SessionAttendance)

	router.POST("/auth/register/begin", authn.BeginRegistration)
	router.POST("/auth/register/finish", authn.FinishRegistration)

	router.POST("/auth/login/begin", authn.BeginLogin)
	router.POST("/auth/login/finish", authn.FinishLogin)

	router.GET("/auth/check-if-registered-from-cookie", authn.CheckIfRegisteredCookie)
	router.GET("/auth/check-if-registered-from-header", authn.CheckIfRegisteredHeader)

	router.Run(cfg.Server.Port)
}
