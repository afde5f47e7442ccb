package notice

import (
	"context"

	"github.com/ncobase/accountdesk/logging/logger"
)

// LogNotifier writes notices to the logger
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a notifier on l, or the standard logger when l is nil
func NewLogNotifier(l *logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.StdLogger()
	}
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Notify(ctx context.Context, nt Notice) {
	kv := []any{"level", nt.Level, "title", nt.Title}
	switch nt.Level {
	case Error:
		n.log.Error(ctx, nt.Message, kv...)
	case Warning:
		n.log.Warn(ctx, nt.Message, kv...)
	default:
		n.log.Info(ctx, nt.Message, kv...)
	}
}
