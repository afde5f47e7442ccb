// Package resp writes JSON responses for the mock backend.
//
// Successful responses carry the payload directly, or {"message": ...} when
// given a string. Failures are written as
//
//	{"code": -1001, "message": "Invalid email or password", "errors": {...}}
//
// where code is an ecode value and errors holds per-field validation messages.
package resp
