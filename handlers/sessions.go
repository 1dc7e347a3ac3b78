package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
)

// CreateSessionHTTP opens a session without the live display feed, for
// clients that poll GET /sessions/:id/code themselves.
func (h *Handlers) CreateSessionHTTP(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()
	session, err := h.manager.Create(ctx,
		req.CourseCode,
		parseEpochMilliInt(req.ScheduledStart),
		parseEpochMilliInt(req.ScheduledEnd),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SessionCode issues a fresh code for an active session on demand.
func (h *Handlers) SessionCode(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()
	session, err := h.manager.Get(ctx, id)
	if err != nil {
		if errors.Is(err, qrtoken.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not look up session"})
		return
	}
	if !session.Active {
		c.JSON(http.StatusConflict, gin.H{"error": "session is not active"})
		return
	}

	code, err := h.issuer.IssueCode(session.ID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue code"})
		return
	}
	if c.Query("format") == "png" {
		c.Data(http.StatusOK, "image/png", code.PNG)
		return
	}
	c.JSON(http.StatusOK, code)
}

func (h *Handlers) CloseSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()
	if err := h.manager.Close(ctx, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// SessionAttendance lists the redemptions recorded for a session.
func (h *Handlers) SessionAttendance(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()
	records, err := h.manager.Attendance(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not list attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": records})
}

func parseEpochMilliInt(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
