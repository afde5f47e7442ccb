package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPSender delivers plain text mails through a relay. Auth is skipped
// when no username is configured.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(c *SMTPConfig, from string) (*SMTPSender, error) {
	if c == nil || c.Host == "" || c.Port == "" || pick(c.From, from) == "" {
		return nil, invalid("smtp")
	}
	s := &SMTPSender{
		addr: net.JoinHostPort(c.Host, c.Port),
		from: pick(c.From, from),
		send: smtp.SendMail,
	}
	if c.Username != "" {
		s.auth = smtp.PlainAuth("", c.Username, c.Password, c.Host)
	}
	return s, nil
}

func (s *SMTPSender) SendTemplateEmail(ctx context.Context, to string, t Template) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\n", s.from, to, t.Subject)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(t.Text(), "\n", "\r\n"))

	err := s.send(s.addr, s.auth, s.from, []string{to}, []byte(b.String()))
	report(ctx, "smtp", to, "", err)
	return "", err
}
