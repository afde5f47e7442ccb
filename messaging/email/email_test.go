package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideSenderSelectsBackend(t *testing.T) {
	s, err := ProvideSender(&Email{Provider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = ProvideSender(&Email{
		Provider: "mailgun",
		Mailgun:  &MailgunConfig{Key: "k", Domain: "mg.example.com", From: "desk@example.com"},
	})
	require.NoError(t, err)
	assert.IsType(t, &MailgunSender{}, s)

	s, err = ProvideSender(&Email{Provider: "sendgrid", From: "desk@example.com", SendGrid: &SendGridConfig{Key: "k"}})
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	s, err = ProvideSender(nil)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)
}

func TestProvideSenderRejectsIncompleteConfig(t *testing.T) {
	_, err := ProvideSender(&Email{Provider: "smtp", SMTP: &SMTPConfig{Host: "localhost"}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ProvideSender(&Email{Provider: "mailgun"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSMTPSenderFormatsMessage(t *testing.T) {
	s, err := NewSMTPSender(&SMTPConfig{Host: "mail.local", Port: "25"}, "desk@example.com")
	require.NoError(t, err)
	assert.Nil(t, s.auth)

	var gotAddr string
	var gotMsg []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotMsg = addr, msg
		assert.Equal(t, "desk@example.com", from)
		assert.Equal(t, []string{"user@example.com"}, to)
		return nil
	}
	_, err = s.SendTemplateEmail(context.Background(), "user@example.com", PasswordResetTemplate("http://x/reset", "123456"))
	require.NoError(t, err)
	assert.Equal(t, "mail.local:25", gotAddr)
	assert.Contains(t, string(gotMsg), "Subject: Reset your password\r\n")
	assert.Contains(t, string(gotMsg), "123456\r\n\r\nhttp://x/reset")

	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }
	_, err = s.SendTemplateEmail(context.Background(), "user@example.com", PasswordResetTemplate("u", "k"))
	assert.EqualError(t, err, "relay down")
}

func TestTemplateHTMLEscapes(t *testing.T) {
	tpl := TemporaryPasswordTemplate("http://x/login?a=1&b=2", "<pw>")
	assert.Contains(t, tpl.HTML(), "&lt;pw&gt;")
	assert.Contains(t, tpl.HTML(), "a=1&amp;b=2")
}

func TestLogSenderRecords(t *testing.T) {
	s := NewLogSender()
	id, err := s.SendTemplateEmail(context.Background(), "user@example.com", PasswordResetTemplate("http://x/reset", "k"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	sent := s.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "user@example.com", sent[0].Recipient)
	assert.Equal(t, "Reset your password", sent[0].Template.Subject)
}
