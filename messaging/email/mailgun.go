package email

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
)

type MailgunConfig struct {
	Key    string
	Domain string
	From   string
}

// MailgunSender renders mails with stored Mailgun templates, passing the
// keyword and url as template variables.
type MailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunSender(c *MailgunConfig, from string) (*MailgunSender, error) {
	if c == nil || c.Key == "" || c.Domain == "" || pick(c.From, from) == "" {
		return nil, invalid("mailgun")
	}
	return &MailgunSender{mg: mailgun.NewMailgun(c.Domain, c.Key), from: pick(c.From, from)}, nil
}

func (s *MailgunSender) SendTemplateEmail(ctx context.Context, to string, t Template) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	m := s.mg.NewMessage(s.from, t.Subject, t.Text(), to)
	m.SetTemplate(t.Template)
	for k, v := range map[string]string{"keyword": t.Keyword, "url": t.URL} {
		if err := m.AddVariable(k, v); err != nil {
			return "", err
		}
	}
	_, id, err := s.mg.Send(ctx, m)
	report(ctx, "mailgun", to, id, err)
	return id, err
}
