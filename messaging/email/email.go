package email

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/ncobase/accountdesk/logging/logger"
)

// Email selects and configures the delivery backend
type Email struct {
	Provider string          `json:"provider" yaml:"provider"`
	From     string          `json:"from" yaml:"from"`
	ResetURL string          `json:"reset_url" yaml:"reset_url"`
	Mailgun  *MailgunConfig  `json:"mailgun" yaml:"mailgun"`
	SendGrid *SendGridConfig `json:"sendgrid" yaml:"sendgrid"`
	SMTP     *SMTPConfig     `json:"smtp" yaml:"smtp"`
}

// Template is a transactional mail. Keyword is the secret it carries (a
// reset code or a temporary password) and URL where to use it.
type Template struct {
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Keyword  string `json:"keyword"`
	URL      string `json:"url"`
}

func (t Template) Text() string { return t.Keyword + "\n\n" + t.URL }

func (t Template) HTML() string {
	u := html.EscapeString(t.URL)
	return fmt.Sprintf(`<p>%s</p><p><a href="%s">%s</a></p>`, html.EscapeString(t.Keyword), u, u)
}

// Sender delivers a template to one recipient and returns the provider's
// message id, if it has one.
type Sender interface {
	SendTemplateEmail(ctx context.Context, recipientEmail string, template Template) (string, error)
}

var ErrInvalidConfig = errors.New("invalid email configuration")

const sendTimeout = 30 * time.Second

func invalid(provider string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, provider)
}

func report(ctx context.Context, provider, to, id string, err error) {
	if err != nil {
		logger.StdLogger().Error(ctx, "Error sending email", "provider", provider, "to", to, "error", err)
		return
	}
	logger.StdLogger().Info(ctx, "Email sent", "provider", provider, "to", to, "id", id)
}

func PasswordResetTemplate(resetURL, code string) Template {
	return Template{
		Subject:  "Reset your password",
		Template: "password-reset",
		Keyword:  code,
		URL:      resetURL,
	}
}

func TemporaryPasswordTemplate(loginURL, password string) Template {
	return Template{
		Subject:  "Your password was reset",
		Template: "temporary-password",
		Keyword:  password,
		URL:      loginURL,
	}
}
