package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridConfig struct {
	Key  string
	From string
}

type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(c *SendGridConfig, from string) (*SendGridSender, error) {
	if c == nil || c.Key == "" || pick(c.From, from) == "" {
		return nil, invalid("sendgrid")
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(c.Key),
		from:   mail.NewEmail("Account Desk", pick(c.From, from)),
	}, nil
}

func (s *SendGridSender) SendTemplateEmail(ctx context.Context, to string, t Template) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msg := mail.NewSingleEmail(s.from, t.Subject, mail.NewEmail("", to), t.Text(), t.HTML())
	res, err := s.client.SendWithContext(ctx, msg)
	if err == nil && res.StatusCode >= 300 {
		err = fmt.Errorf("sendgrid answered %d: %s", res.StatusCode, res.Body)
	}
	var id string
	if err == nil {
		if ids := res.Headers["X-Message-Id"]; len(ids) > 0 {
			id = ids[0]
		}
	}
	report(ctx, "sendgrid", to, id, err)
	return id, err
}
