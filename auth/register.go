package auth

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/webauthn"
	"gorm.io/gorm"
)

var webAuthnRegisterSessions sync.Map

func (a *Auth) BeginRegistration(c *gin.Context) {
	srn := c.GetHeader("SRN")
	if srn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SRN header not found"})
		return
	}
	user, err := a.store.GetUser(c.Request.Context(), srn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user, err = a.store.CreateUser(c.Request.Context(), srn)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if len(user.Credentials) > 0 {
		// already registered with another authenticator
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already registered"})
		return
	}

	options, session, err := a.webAuthn.BeginRegistration(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	webAuthnRegisterSessions.Store(srn, session)

	c.JSON(http.StatusOK, options)
}

func (a *Auth) FinishRegistration(c *gin.Context) {
	srn := c.GetHeader("SRN")
	sessionUntyped, ok := webAuthnRegisterSessions.Load(srn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session not found"})
		return
	}
	session := sessionUntyped.(*webauthn.SessionData)
	user, err := a.store.GetUser(c.Request.Context(), srn)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	credential, err := a.webAuthn.FinishRegistration(user, *session, c.Request)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := a.store.AddCredential(c.Request.Context(), user.SRN, credential); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	webAuthnRegisterSessions.Delete(srn)

	c.SetCookie(
		"SRN",            // Cookie name
		srn,              // Cookie value
		int(^uint(0)>>1), // Max age in seconds (big value)
		"/",              // Path
		"",               // Domain (default: current domain)
		true,             // Secure (true to allow only over HTTPS)
		true,             // HttpOnly (true to disallow JavaScript access)
	)
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (a *Auth) CheckIfRegisteredCookie(c *gin.Context) {
	srn, err := c.Cookie("SRN")
	if err != nil {
		// cookie was not there, aka not registered
		c.JSON(http.StatusOK, gin.H{"registered": false})
		return
	}
	a.respondRegistered(c, srn)
}

func (a *Auth) CheckIfRegisteredHeader(c *gin.Context) {
	srn := c.GetHeader("SRN")
	if srn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SRN header not found"})
		return
	}
	a.respondRegistered(c, srn)
}

func (a *Auth) respondRegistered(c *gin.Context, srn string) {
	user, err := a.store.GetUser(c.Request.Context(), srn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"registered": false})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": len(user.Credentials) > 0})
}
