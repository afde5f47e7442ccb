package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/net/resp"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/structs"
	"github.com/ncobase/accountdesk/validation/validator"
)

// bind decodes and validates the JSON body, writing the failure response itself
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return false
	}
	if err := validator.Validate(dst); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return false
	}
	return true
}

// passwordMismatch reports a wrong confirmation password against field
// instead of as a credentials failure, which clients treat as sign-out.
func passwordMismatch(c *gin.Context, err error, field string) bool {
	if !errors.Is(err, ecode.ErrInvalidCredentials) {
		return false
	}
	resp.Fail(c.Writer, resp.Invalid(map[string]string{field: ecode.MessageOf(err)}))
	return true
}

func (s *Server) login(c *gin.Context) {
	var req structs.LoginData
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	identity, err := s.dir.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	auth, err := s.issue(ctx, identity)
	if err != nil {
		s.log.Error(ctx, "Failed to issue tokens", "user_id", identity.ID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to issue tokens"))
		return
	}
	s.log.Info(ctx, "User logged in", "user_id", identity.ID)
	resp.Success(c.Writer, auth)
}

func (s *Server) register(c *gin.Context) {
	var req structs.RegistrationData
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	identity, err := s.dir.Register(ctx, req)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	auth, err := s.issue(ctx, identity)
	if err != nil {
		resp.Fail(c.Writer, resp.InternalServer("failed to issue tokens"))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, auth)
}

// forgotPassword always answers with the same message so it cannot be used
// to discover which addresses have accounts.
func (s *Server) forgotPassword(c *gin.Context) {
	var req structs.ForgotPasswordData
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if identity, err := s.dir.FindByEmail(ctx, req.Email); err == nil && identity.IsActive {
		s.sendResetLink(ctx, identity)
	}
	resp.Success(c.Writer, structs.MessageResponse{Message: notice.MsgResetRequested})
}

func (s *Server) changePassword(c *gin.Context) {
	var req structs.ChangePasswordData
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	identity := currentIdentity(c)
	err := s.dir.ChangePassword(ctx, identity.ID, req.CurrentPassword, req.NewPassword)
	if passwordMismatch(c, err, "currentPassword") {
		return
	}
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, structs.MessageResponse{Message: "Password changed successfully"})
}

func (s *Server) refresh(c *gin.Context) {
	var req structs.RefreshRequest
	if !bind(c, &req) {
		return
	}
	auth, err := s.rotate(c.Request.Context(), req.RefreshToken)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, auth)
}

func (s *Server) logout(c *gin.Context) {
	var req structs.RefreshRequest
	if !bind(c, &req) {
		return
	}
	if err := s.revoke(c.Request.Context(), req.RefreshToken); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, structs.MessageResponse{Message: notice.MsgLoggedOut})
}
