package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/accountdesk/ctxutil"
	"github.com/ncobase/accountdesk/net/resp"
	"github.com/ncobase/accountdesk/structs"
)

func (s *Server) listUsers(c *gin.Context) {
	var filter structs.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}
	resp.Success(c.Writer, s.dir.List(c.Request.Context(), filter))
}

func (s *Server) createUser(c *gin.Context) {
	var req structs.CreateUserBody
	if !bind(c, &req) {
		return
	}
	identity, err := s.dir.Create(c.Request.Context(), req)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, identity)
}

func (s *Server) updateUser(c *gin.Context) {
	var req structs.UpdateUserBody
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	identity, err := s.dir.Update(ctx, id, req)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	if !identity.IsActive {
		s.endSessions(c, id)
	}
	resp.Success(c.Writer, identity)
}

func (s *Server) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == ctxutil.GetUserID(c.Request.Context()) {
		resp.Fail(c.Writer, resp.BadRequest("you cannot delete your own account here"))
		return
	}
	if err := s.dir.Delete(c.Request.Context(), id); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	s.endSessions(c, id)
	resp.Success(c.Writer, structs.MessageResponse{Message: "User deleted"})
}

func (s *Server) toggleUserStatus(c *gin.Context) {
	id := c.Param("id")
	if id == ctxutil.GetUserID(c.Request.Context()) {
		resp.Fail(c.Writer, resp.BadRequest("you cannot deactivate your own account"))
		return
	}
	identity, err := s.dir.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	if !identity.IsActive {
		s.endSessions(c, id)
	}
	resp.Success(c.Writer, identity)
}

func (s *Server) resetUserPassword(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	identity, err := s.dir.Get(ctx, id)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	temp, err := s.dir.ResetPassword(ctx, id)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	s.sendTemporaryPassword(ctx, identity, temp)
	s.endSessions(c, id)
	resp.Success(c.Writer, structs.ResetPasswordResult{
		Message:           "Password reset successfully",
		TemporaryPassword: temp,
	})
}

func (s *Server) stats(c *gin.Context) {
	resp.Success(c.Writer, s.dir.Stats(s.clock.Now()))
}

func (s *Server) endSessions(c *gin.Context, id string) {
	ctx := c.Request.Context()
	if err := s.revokeUser(ctx, id); err != nil {
		s.log.Warn(ctx, "Failed to revoke sessions", "user_id", id, "error", err)
	}
}
