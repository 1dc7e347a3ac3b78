package models

// ScanInit is the first frame a student sends on the scan websocket, used
// for clock-drift measurement and fingerprint pass-through.
type ScanInit struct {
	ClientTime         string `json:"clientTime"` // epoch ms, string to avoid JS overflow
	SRN                string `json:"SRN"`
	BrowserFingerprint string `json:"browserFingerprint" binding:"required"`
}

// ScanMessage carries one scanned token.
type ScanMessage struct {
	Token     Token  `json:"token"`
	ScannedAt string `json:"scannedAt"` // epoch ms, string to avoid JS overflow
	SRN       string `json:"SRN"`
}

// RedeemRequest is the camera-less deep-link flow: the token arrives as the
// JSON string from the QR payload, either in the body or a query parameter.
type RedeemRequest struct {
	Token              string `json:"token" form:"token" binding:"required"`
	BrowserFingerprint string `json:"browserFingerprint" form:"browserFingerprint"`
}

// CreateSessionRequest opens a new class session.
type CreateSessionRequest struct {
	CourseCode     string `json:"courseCode" binding:"required"`
	ScheduledStart int64  `json:"scheduledStart"` // epoch ms, 0 means now
	ScheduledEnd   int64  `json:"scheduledEnd"`   // epoch ms, 0 means start + 1h
}
