// Package ctxutil stores request-scoped values (trace id, user id, role,
// token) on context.Context, mirroring them onto *gin.Context when one is
// embedded so handlers and middleware see the same values.
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	ctx = ctxutil.SetUserID(ctx, "42")
package ctxutil
