package server

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/ctxutil"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/guard"
	"github.com/ncobase/accountdesk/net/resp"
	"github.com/ncobase/accountdesk/structs"
	"golang.org/x/time/rate"
)

const identityKey = "identity"

// trace attaches a trace id to the request context
func (s *Server) trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, traceID := ctxutil.EnsureTraceID(ctxutil.WithGinContext(c.Request.Context(), c))
		c.Request = c.Request.WithContext(ctx)
		c.Header(consts.TraceKey, traceID)
		c.Next()
	}
}

// authenticate accepts a bearer access token whose session is still live
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(consts.AuthorizationKey)
		if header == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("missing authorization header"))
			c.Abort()
			return
		}
		token, ok := strings.CutPrefix(header, consts.BearerKey)
		if !ok || token == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		identity, err := s.identityFromAccess(ctx, token)
		if err != nil {
			s.log.Warn(ctx, "Rejected access token", "error", err)
			resp.Fail(c.Writer, resp.FromError(err))
			c.Abort()
			return
		}

		ctx = ctxutil.SetUserID(ctx, identity.ID)
		ctx = ctxutil.SetRole(ctx, string(identity.Role))
		ctx = ctxutil.SetToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)
		c.Set(identityKey, identity)
		c.Next()
	}
}

// requireAdmin runs the route guard against the authenticated identity
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := guard.Decide(currentIdentity(c), guard.RoleRequirement(structs.RoleAdmin), c.Request.URL.Path)
		switch d.Outcome {
		case guard.RedirectToLogin:
			resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
			c.Abort()
		case guard.RedirectToUnauthorized:
			resp.Fail(c.Writer, resp.Forbidden("insufficient permissions"))
			c.Abort()
		default:
			c.Next()
		}
	}
}

// rateLimit throttles login attempts per client IP
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.allow(c.ClientIP()) {
			s.log.Warn(c.Request.Context(), "Login rate limited", "ip", c.ClientIP())
			resp.Fail(c.Writer, resp.TooManyRequests(ecode.Text(ecode.TooManyRequests)))
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *structs.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*structs.Identity); ok {
			return id
		}
	}
	return nil
}

// loginLimiter keeps one token bucket per client
type loginLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &loginLimiter{
		every:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (l *loginLimiter) allow(client string) bool {
	l.mu.Lock()
	lim, ok := l.clients[client]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.clients[client] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
