package auth

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/webauthn"
)

var webAuthnLoginSessions sync.Map

func (a *Auth) BeginLogin(c *gin.Context) {
	srn, err := c.Cookie("SRN")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SRN cookie not found"})
		return
	}
	user, err := a.store.GetUser(c.Request.Context(), srn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(user.Credentials) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No credential found for this user"})
		return
	}
	options, session, err := a.webAuthn.BeginLogin(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	webAuthnLoginSessions.Store(srn, session)
	c.JSON(http.StatusOK, options)
}

func (a *Auth) FinishLogin(c *gin.Context) {
	srn, err := c.Cookie("SRN")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SRN cookie not found"})
		return
	}
	sessionUntyped, ok := webAuthnLoginSessions.Load(srn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session not found"})
		return
	}
	session := sessionUntyped.(*webauthn.SessionData)
	user, err := a.store.GetUser(c.Request.Context(), srn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	credential, err := a.webAuthn.FinishLogin(user, *session, c.Request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = a.store.UpdateCredential(c.Request.Context(), user.SRN, credential)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	webAuthnLoginSessions.Delete(srn)
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
