package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
	"github.com/jovidjumaev/fsas.github.io-sub002/qrtoken"
)

// Redeem is the camera-less flow: the QR payload arrives as a JSON string in
// the body or the token query parameter. Identity comes from the SRN cookie
// set at passkey registration, never from the token.
func (h *Handlers) Redeem(c *gin.Context) {
	srn, err := c.Cookie("SRN")
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "SRN cookie not found"})
		return
	}

	var req models.RedeemRequest
	if err := c.ShouldBind(&req); err != nil {
		if req.Token = c.Query("token"); req.Token == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  qrtoken.CodeMalformedToken,
				"error": "missing token",
			})
			return
		}
	}

	var token models.Token
	if err := json.Unmarshal([]byte(req.Token), &token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  qrtoken.CodeMalformedToken,
			"error": "code payload does not parse",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()
	record, err := h.validator.Validate(ctx, token, srn, qrtoken.ScanContext{
		DeviceFingerprint: req.BrowserFingerprint,
		NetworkAddress:    c.ClientIP(),
	})
	if err != nil {
		code := qrtoken.CodeOf(err)
		c.JSON(httpStatusFor(code), gin.H{
			"code":      code,
			"error":     qrtoken.PublicMessage(err),
			"retryable": qrtoken.Retryable(err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "record": record})
}

func httpStatusFor(code qrtoken.Code) int {
	switch code {
	case qrtoken.CodeAlreadyRecorded:
		// already marked present is informational, not a failure
		return http.StatusOK
	case qrtoken.CodeInvalidSignature:
		return http.StatusUnauthorized
	case qrtoken.CodeSessionNotActive:
		return http.StatusConflict
	case qrtoken.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
