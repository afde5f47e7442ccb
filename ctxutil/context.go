package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ncobase/accountdesk/consts"
)

// key is a context key. Its string form is the matching *gin.Context key.
type key string

const (
	ginKey   key = consts.GinContextKey
	userKey  key = consts.UserKey
	roleKey  key = consts.RoleKey
	tokenKey key = consts.TokenKey
	traceKey key = consts.TraceIDKey
)

// TraceIDKey is the log field name for the trace id.
const TraceIDKey = consts.TraceIDKey

// WithGinContext embeds c so later Set calls also land on the gin context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginKey, c)
}

// GinContext returns the embedded *gin.Context, if any.
func GinContext(ctx context.Context) (*gin.Context, bool) {
	c, ok := ctx.Value(ginKey).(*gin.Context)
	return c, ok && c != nil
}

func set(ctx context.Context, k key, v string) context.Context {
	if c, ok := GinContext(ctx); ok {
		c.Set(string(k), v)
	}
	return context.WithValue(ctx, k, v)
}

func get(ctx context.Context, k key) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(k).(string); ok {
		return v
	}
	if c, ok := GinContext(ctx); ok {
		return c.GetString(string(k))
	}
	return ""
}

func SetUserID(ctx context.Context, id string) context.Context { return set(ctx, userKey, id) }
func GetUserID(ctx context.Context) string                    { return get(ctx, userKey) }

func SetRole(ctx context.Context, role string) context.Context { return set(ctx, roleKey, role) }
func GetRole(ctx context.Context) string                      { return get(ctx, roleKey) }

func SetToken(ctx context.Context, token string) context.Context { return set(ctx, tokenKey, token) }
func GetToken(ctx context.Context) string                       { return get(ctx, tokenKey) }

func SetTraceID(ctx context.Context, id string) context.Context { return set(ctx, traceKey, id) }
func GetTraceID(ctx context.Context) string                    { return get(ctx, traceKey) }

// EnsureTraceID returns ctx unchanged when it already carries a trace id,
// otherwise it attaches a fresh uuid.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if id := GetTraceID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return SetTraceID(ctx, id), id
}
