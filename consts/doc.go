// Package consts defines application-wide constants including context keys,
// persisted storage keys, route paths, roles and session defaults.
//
// # Storage Keys
//
// Every value the client persists lives under one of the keys below:
//
//	consts.AuthTokenKey     // "auth_token"
//	consts.RefreshTokenKey  // "refresh_token"
//	consts.UserDataKey      // "user_data"
//	consts.ProfileDraftKey  // "profile_draft" (+ "profile_draft_timestamp")
//
// Logout removes everything in consts.SessionKeys.
//
// # Context Keys
//
// UserKey, RoleKey, TokenKey and TraceIDKey name the request-scoped values
// the backend middleware attaches, see package ctxutil.
package consts
