package email

import "github.com/google/wire"

var ProviderSet = wire.NewSet(ProvideSender)

// ProvideSender builds the backend named by cfg.Provider. Provider sections
// without their own sender address use cfg.From. Anything other than
// mailgun, sendgrid or smtp logs mails instead of delivering them.
func ProvideSender(cfg *Email) (Sender, error) {
	if cfg == nil {
		return NewLogSender(), nil
	}
	switch cfg.Provider {
	case "mailgun":
		return NewMailgunSender(cfg.Mailgun, cfg.From)
	case "sendgrid":
		return NewSendGridSender(cfg.SendGrid, cfg.From)
	case "smtp":
		return NewSMTPSender(cfg.SMTP, cfg.From)
	default:
		return NewLogSender(), nil
	}
}

func pick(own, fallback string) string {
	if own != "" {
		return own
	}
	return fallback
}
