package qrtoken

import (
	"errors"
	"fmt"
)

// Code identifies why a scan was rejected. Every message behind a code is
// safe to show to the scanning student verbatim.
type Code string

const (
	CodeExpired          Code = "EXPIRED"
	CodeInvalid          Code = "INVALID"
	CodeInvalidSignature Code = "INVALID_SIGNATURE"
	CodeSessionNotActive Code = "SESSION_NOT_ACTIVE"
	CodeAlreadyRecorded  Code = "ALREADY_RECORDED"
	CodeMalformedToken   Code = "MALFORMED_TOKEN"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
)

type RejectionError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *RejectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RejectionError) Unwrap() error { return e.Cause }

func reject(code Code, message string) error {
	return &RejectionError{Code: code, Message: message}
}

func rejectWrap(code Code, message string, cause error) error {
	return &RejectionError{Code: code, Message: message, Cause: cause}
}

var (
	ErrExpired          = reject(CodeExpired, "code has expired, scan the current one")
	ErrFromFuture       = reject(CodeInvalid, "code timestamp is in the future")
	ErrInvalidSignature = reject(CodeInvalidSignature, "code signature does not verify")
	ErrSessionNotActive = reject(CodeSessionNotActive, "attendance session is not active")
	ErrAlreadyRecorded  = reject(CodeAlreadyRecorded, "attendance already marked for this session")
)

// CodeOf extracts the rejection code, or CodeStoreUnavailable for anything
// that is not a typed rejection (unexpected store failures surface that way).
func CodeOf(err error) Code {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Code
	}
	return CodeStoreUnavailable
}

// PublicMessage is the user-facing text for a rejection. Wrapped causes
// (store errors and the like) never leak through it.
func PublicMessage(err error) string {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Message
	}
	return "temporary failure, please try again"
}

// Retryable reports whether the whole validation may be retried with the
// same token. Only transient store failures qualify; everything else needs
// a fresh code or is final.
func Retryable(err error) bool {
	return CodeOf(err) == CodeStoreUnavailable
}
