package handlers

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// CreateSession upgrades to a websocket, opens a class session and streams
// a freshly signed QR code on every TTL tick until the teacher disconnects.
func (h *Handlers) CreateSession(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish WebSocket connection"})
		return
	}
	defer conn.Close()

	courseCode := c.Query("course")
	start := parseEpochMilli(c.Query("start"))
	end := parseEpochMilli(c.Query("end"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	session, err := h.manager.Create(ctx, courseCode, start, end)
	cancel()
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		conn.WriteJSON(gin.H{"error": err.Error()})
		return
	}
	defer func() {
		// deactivate the session when the display goes away
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := h.manager.Close(ctx, session.ID); err != nil {
			log.Printf("Failed to close session %s: %v", session.ID, err)
			return
		}
		log.Printf("Session %s cleaned up", session.ID)
	}()

	err = conn.WriteJSON(gin.H{
		"sessionID":      session.ID,
		"scheduledStart": session.ScheduledStart.UnixMilli(),
		"scheduledEnd":   session.ScheduledEnd.UnixMilli(),
	})
	if err != nil {
		log.Printf("Failed to send session ID: %v", err)
		return
	}

	// First code immediately, then re-issue on the TTL cadence so the
	// display never shows a code the validator would reject.
	if err := h.sendCode(conn, session.ID); err != nil {
		return
	}
	ticker := time.NewTicker(h.issuer.TTL())
	defer ticker.Stop()

	for range ticker.C {
		if err := h.sendCode(conn, session.ID); err != nil {
			return
		}
	}
}

func (h *Handlers) sendCode(conn *websocket.Conn, sessionID string) error {
	code, err := h.issuer.IssueCode(sessionID, 0)
	if err != nil {
		// a display showing an error state beats one showing a stale code
		log.Printf("Failed to issue code for session %s: %v", sessionID, err)
		conn.WriteJSON(gin.H{"error": "failed to issue code"})
		return err
	}
	err = conn.WriteJSON(gin.H{
		"token":     code.Token,
		"expiresAt": code.ExpiresAt,
		"qrPng":     base64.StdEncoding.EncodeToString(code.PNG),
	})
	if err != nil {
		log.Printf("Client disconnected: %v", err)
	}
	return err
}

func parseEpochMilli(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
