package resp

import (
	"errors"
	"net/http"

	"github.com/ncobase/accountdesk/ecode"
)

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, data ...any) *Exception {
	return newResponse(http.StatusUnauthorized, ecode.NoLogin, message, data...)
}

// SessionExpired indicates that the presented token is no longer valid.
func SessionExpired(message string, data ...any) *Exception {
	return newResponse(http.StatusUnauthorized, ecode.SessionExpired, message, data...)
}

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NotFound, message, data...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, data ...any) *Exception {
	return newResponse(http.StatusForbidden, ecode.AccessDenied, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// Conflict indicates a conflict error.
func Conflict(message string, data ...any) *Exception {
	return newResponse(http.StatusConflict, ecode.Conflict, message, data...)
}

// TooManyRequests indicates the caller is rate limited.
func TooManyRequests(message string, data ...any) *Exception {
	return newResponse(http.StatusTooManyRequests, ecode.TooManyRequests, message, data...)
}

// Invalid reports per-field validation failures.
func Invalid(fields map[string]string) *Exception {
	return newResponse(http.StatusUnprocessableEntity, ecode.ValidationFailed, ecode.Text(ecode.ValidationFailed), fields)
}

// FromError converts a coded error into an Exception. Uncoded errors become 500s.
func FromError(err error) *Exception {
	var ve *ecode.ValidationError
	if errors.As(err, &ve) {
		return Invalid(ve.Fields)
	}
	var e *ecode.Error
	if errors.As(err, &e) {
		return newResponse(ecode.ToHTTPStatus(e.Code), e.Code, e.Message)
	}
	return InternalServer(ecode.Text(ecode.ServerErr))
}
