package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
)

// StudentScan upgrades to a websocket and validates scan attempts until one
// succeeds or the student disconnects. The first frame carries the client
// clock and browser fingerprint; subsequent frames carry scanned tokens.
func (h *Handlers) StudentScan(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish WebSocket connection"})
		return
	}
	defer conn.Close()

	serverBeforeTime := time.Now().UnixMilli()

	var initMessage models.ScanInit
	err = conn.ReadJSON(&initMessage)

	serverTime := time.Now().UnixMilli()
	studentLatency := serverTime - serverBeforeTime

	if err != nil {
		log.Printf("Failed to read initial client message: %v", err)
		conn.WriteJSON(gin.H{"status": "error", "message": "Failed to read initial data"})
		return
	}

	// Drift and latency are diagnostics; validation trusts only the token
	// timestamp against the server clock.
	int64ClientTime, _ := strconv.ParseInt(initMessage.ClientTime, 10, 64)
	clockDrift := serverTime - int64ClientTime
	log.Printf("Clock drift for SRN %s: %d ms", initMessage.SRN, clockDrift)
	log.Printf("Latency for SRN %s: %d ms", initMessage.SRN, studentLatency)

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	fingerprintOK, err := h.store.ValidateFingerprint(ctx, initMessage.SRN, initMessage.BrowserFingerprint)
	cancel()
	if err != nil {
		log.Printf("Failed to validate browser fingerprint: %v", err)
	} else if !fingerprintOK {
		// advisory only, recorded with the scan
		log.Printf("Fingerprint mismatch for SRN %s", initMessage.SRN)
	}

	var scanMessage models.ScanMessage
	for {
		err := conn.ReadJSON(&scanMessage)
		if err != nil {
			log.Printf("Client disconnected or error reading message: %v", err)
			break
		}

		srn := scanMessage.SRN
		if srn == "" {
			srn = initMessage.SRN
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		record, err := h.validator.Validate(ctx, scanMessage.Token, srn, qrtoken.ScanContext{
			DeviceFingerprint: initMessage.BrowserFingerprint,
			NetworkAddress:    c.ClientIP(),
		})
		cancel()

		if err == nil {
			log.Println(srn, "being marked", record.Status)
			conn.WriteJSON(gin.H{
				"status":  "OK",
				"message": "Attendance marked successfully",
				"record":  record,
			})
			break
		}

		code := qrtoken.CodeOf(err)
		log.Println(srn, code, err)
		if code == qrtoken.CodeAlreadyRecorded {
			// informational, not a failure: the student is marked
			conn.WriteJSON(gin.H{"status": "OK", "code": code, "message": qrtoken.PublicMessage(err)})
			break
		}
		// keep the connection open so the student can scan a fresh code
		conn.WriteJSON(gin.H{
			"status":    "error",
			"code":      code,
			"message":   qrtoken.PublicMessage(err),
			"retryable": qrtoken.Retryable(err),
		})
	}
}
