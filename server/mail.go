package server

import (
	"context"
	"net/url"

	"github.com/ncobase/accountdesk/concurrency/worker"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/ctxutil"
	"github.com/ncobase/accountdesk/messaging/email"
	"github.com/ncobase/accountdesk/nanoid"
	"github.com/ncobase/accountdesk/structs"
)

const resetCodeSize = 32

func (s *Server) siteURL(path string) string {
	return "http://" + s.cfg.Addr() + path
}

func (s *Server) resetURL() string {
	if s.cfg.Email != nil && s.cfg.Email.ResetURL != "" {
		return s.cfg.Email.ResetURL
	}
	return s.siteURL("/reset-password")
}

// sendResetLink mails a reset link with a one-time code
func (s *Server) sendResetLink(ctx context.Context, identity *structs.Identity) {
	code := nanoid.Must(resetCodeSize)
	link := s.resetURL() + "?" + url.Values{"code": {code}}.Encode()
	s.deliver(ctx, "password-reset", identity.Email, email.PasswordResetTemplate(link, code))
}

// sendTemporaryPassword mails an admin-issued password
func (s *Server) sendTemporaryPassword(ctx context.Context, identity *structs.Identity, password string) {
	tpl := email.TemporaryPasswordTemplate(s.siteURL(consts.RouteLogin), password)
	s.deliver(ctx, "temporary-password", identity.Email, tpl)
}

// deliver hands the mail to the background pool so slow providers never
// hold up the request.
func (s *Server) deliver(ctx context.Context, name, to string, tpl email.Template) {
	traceID := ctxutil.GetTraceID(ctx)
	err := s.jobs.Submit(worker.Job{
		Name: name,
		Run: func(jobCtx context.Context) error {
			jobCtx = ctxutil.SetTraceID(jobCtx, traceID)
			_, err := s.mailer.SendTemplateEmail(jobCtx, to, tpl)
			return err
		},
	})
	if err != nil {
		s.log.Error(ctx, "Could not queue email", "template", tpl.Template, "error", err)
	}
}
