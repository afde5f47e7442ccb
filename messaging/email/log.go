package email

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ncobase/accountdesk/logging/logger"
)

// Sent is one mail recorded by LogSender
type Sent struct {
	ID        string
	Recipient string
	Template  Template
}

// LogSender logs mails instead of delivering them and keeps them for
// inspection.
type LogSender struct {
	mu   sync.Mutex
	sent []Sent
}

func NewLogSender() *LogSender { return &LogSender{} }

func (s *LogSender) SendTemplateEmail(ctx context.Context, to string, t Template) (string, error) {
	id := uuid.NewString()
	logger.StdLogger().Info(ctx, "Email queued", "id", id, "to", to, "template", t.Template, "url", t.URL)

	s.mu.Lock()
	s.sent = append(s.sent, Sent{ID: id, Recipient: to, Template: t})
	s.mu.Unlock()
	return id, nil
}

func (s *LogSender) Sent() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sent(nil), s.sent...)
}
