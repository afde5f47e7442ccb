package server

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/accountdesk/net/resp"
	"github.com/ncobase/accountdesk/structs"
)

func (s *Server) profile(c *gin.Context) {
	resp.Success(c.Writer, currentIdentity(c))
}

func (s *Server) updateProfile(c *gin.Context) {
	var req structs.ProfileData
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	identity, err := s.dir.Update(ctx, currentIdentity(c).ID, structs.UpdateFromProfile(req))
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, identity)
}

func (s *Server) deleteAccount(c *gin.Context) {
	var req structs.DeleteAccountData
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	id := currentIdentity(c).ID
	err := s.dir.DeleteWithPassword(ctx, id, req.Password)
	if passwordMismatch(c, err, "password") {
		return
	}
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	if err := s.revokeUser(ctx, id); err != nil {
		s.log.Warn(ctx, "Failed to revoke sessions", "user_id", id, "error", err)
	}
	resp.Success(c.Writer, structs.MessageResponse{Message: "Account deleted"})
}
