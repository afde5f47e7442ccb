// Package server is the mock account backend the desk talks to during
// development. It serves the same API a production backend would.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/concurrency/worker"
	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/directory"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/messaging/email"
	"github.com/ncobase/accountdesk/net/resp"
	"github.com/ncobase/accountdesk/security/jwt"
	"github.com/ncobase/accountdesk/storage/kv"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// Server is the mock backend
type Server struct {
	cfg      *config.Config
	dir      *directory.Directory
	tokens   *jwt.TokenManager
	sessions kv.Store
	mailer   email.Sender
	jobs     *worker.Pool
	limiter  *loginLimiter
	clock    schedule.Clock
	log      *logger.Logger
	engine   *gin.Engine
}

// New builds the server and its routes
func New(cfg *config.Config, dir *directory.Directory, tokens *jwt.TokenManager, sessions kv.Store, mailer email.Sender, jobs *worker.Pool, log *logger.Logger) *Server {
	if cfg.RunMode != "" {
		gin.SetMode(cfg.RunMode)
	}
	perMinute, burst := 10, 5
	if cfg.Auth != nil && cfg.Auth.LoginRate != nil {
		perMinute, burst = cfg.Auth.LoginRate.PerMinute, cfg.Auth.LoginRate.Burst
	}
	s := &Server{
		cfg:      cfg,
		dir:      dir,
		tokens:   tokens,
		sessions: sessions,
		mailer:   mailer,
		jobs:     jobs,
		limiter:  newLoginLimiter(perMinute, burst),
		clock:    schedule.Real(),
		log:      log,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.trace())

	r.GET("/health", func(c *gin.Context) {
		resp.Success(c.Writer, map[string]string{"status": "healthy"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", s.rateLimit(), s.login)
		auth.POST("/register", s.register)
		auth.POST("/forgot-password", s.forgotPassword)
		auth.POST("/refresh", s.refresh)
		auth.POST("/logout", s.logout)
		auth.POST("/change-password", s.authenticate(), s.changePassword)
	}

	me := api.Group("/users/me", s.authenticate())
	{
		me.GET("", s.profile)
		me.PATCH("", s.updateProfile)
		me.DELETE("", s.deleteAccount)
	}

	admin := api.Group("/admin", s.authenticate(), s.requireAdmin())
	{
		admin.GET("/users", s.listUsers)
		admin.POST("/users", s.createUser)
		admin.PATCH("/users/:id", s.updateUser)
		admin.DELETE("/users/:id", s.deleteUser)
		admin.PATCH("/users/:id/toggle-status", s.toggleUserStatus)
		admin.POST("/users/:id/reset-password", s.resetUserPassword)
		admin.GET("/stats", s.stats)
	}

	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("route not found"))
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "Mock backend listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(context.Background(), "Shutting down mock backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
