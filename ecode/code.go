package ecode

import (
	"net/http"
	"sync"
)

// Generic codes
const (
	OK                 = 0
	SignCheckErr       = -3
	NoLogin            = -101
	UserDisabled       = -102
	UserInactive       = -106
	RequestErr         = -400
	ParamErr           = -401
	AccessDenied       = -403
	NotFound           = -404
	Conflict           = -409
	TooManyRequests    = -429
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

// Account codes
const (
	InvalidCredentials = -1001
	AccountDeactivated = -1002
	NetworkUnavailable = -1003
	SessionExpired     = -1004
	ValidationFailed   = -1005
)

var (
	mu       sync.RWMutex
	messages = map[int]string{
		OK:                 "ok",
		SignCheckErr:       "Signature verification failed",
		NoLogin:            "Account not logged in",
		UserDisabled:       "Account suspended",
		UserInactive:       "Account not activated",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		AccessDenied:       "Access denied",
		NotFound:           "Resource not found",
		Conflict:           "Resource conflict",
		TooManyRequests:    "Too many requests",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
		InvalidCredentials: "Invalid email or password",
		AccountDeactivated: "Your account has been deactivated. Please contact support.",
		NetworkUnavailable: "Unable to reach the server",
		SessionExpired:     "Your session has expired. Please log in again.",
		ValidationFailed:   "Please correct the highlighted fields",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		SignCheckErr:       http.StatusBadRequest,
		NoLogin:            http.StatusUnauthorized,
		UserDisabled:       http.StatusForbidden,
		UserInactive:       http.StatusForbidden,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		AccessDenied:       http.StatusForbidden,
		NotFound:           http.StatusNotFound,
		Conflict:           http.StatusConflict,
		TooManyRequests:    http.StatusTooManyRequests,
		ServerErr:          http.StatusInternalServerError,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
		InvalidCredentials: http.StatusUnauthorized,
		AccountDeactivated: http.StatusForbidden,
		NetworkUnavailable: http.StatusServiceUnavailable,
		SessionExpired:     http.StatusUnauthorized,
		ValidationFailed:   http.StatusUnprocessableEntity,
	}
)

// Register adds or replaces the message for a code.
func Register(code int, message string) {
	mu.Lock()
	defer mu.Unlock()
	messages[code] = message
}

// Text returns the message registered for code.
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a code to an HTTP status.
func ToHTTPStatus(code int) int {
	mu.RLock()
	defer mu.RUnlock()
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
