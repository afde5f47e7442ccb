package consts

// Request metadata shared by the client and the mock backend.
const (
	AuthorizationKey = "Authorization"
	BearerKey        = "Bearer "
	// TraceKey is the response header echoing the request's trace id.
	TraceKey = "X-Trace-Id"
)

// Request-scoped context keys. They are also used as *gin.Context keys.
const (
	GinContextKey = "gin-context"
	UserKey       = "x-ad-uid"
	RoleKey       = "x-ad-role"
	TokenKey      = "x-ad-token"
	TraceIDKey    = "trace_id"
)
