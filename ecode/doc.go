// Package ecode defines standardized error codes for API responses and the
// account error taxonomy shared by the client and the mock backend.
//
// # Error Code Convention
//
//   - 0: Success (OK)
//   - -100 to -199: Authentication/authorization errors
//   - -400 to -599: Request, resource and server errors (HTTP-shaped)
//   - -1000+: Account flow errors
//
// # Account Errors
//
//	ecode.ErrInvalidCredentials // -1001
//	ecode.ErrAccountDeactivated // -1002
//	ecode.ErrNetworkUnavailable // -1003, triggers the demo fallback
//	ecode.ErrSessionExpired     // -1004, forces logout
//	ecode.ErrValidation         // -1005, form-local
//
// Coded errors compare by code, so a wire error rebuilt with FromCode still
// satisfies errors.Is against the sentinel:
//
//	err := ecode.FromCode(body.Code, body.Message)
//	if errors.Is(err, ecode.ErrAccountDeactivated) { ... }
//
// # HTTP Status Mapping
//
//	ecode.ToHTTPStatus(ecode.NotFound)           // 404
//	ecode.ToHTTPStatus(ecode.InvalidCredentials) // 401
package ecode
