package notice

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// ConsoleNotifier prints notices to a terminal
type ConsoleNotifier struct {
	mu        sync.Mutex
	out       io.Writer
	useColors bool
}

// NewConsoleNotifier prints to w, or stderr when w is nil
func NewConsoleNotifier(w io.Writer, useColors bool) *ConsoleNotifier {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleNotifier{out: w, useColors: useColors}
}

func (c *ConsoleNotifier) Notify(_ context.Context, n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.useColors {
		fmt.Fprintf(c.out, "[%s] %s: %s\n", levelTag(n.Level), n.Title, n.Message)
		return
	}
	attrs, mark := colorFor(n.Level)
	color.New(append(attrs, color.Bold)...).Fprintf(c.out, "%s %s", mark, n.Title)
	fmt.Fprintf(c.out, " %s\n", n.Message)
}

func levelTag(l Level) string {
	switch l {
	case Success:
		return "OK"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

func colorFor(l Level) ([]color.Attribute, string) {
	switch l {
	case Success:
		return []color.Attribute{color.FgGreen}, "✓"
	case Warning:
		return []color.Attribute{color.FgYellow}, "⚠"
	case Error:
		return []color.Attribute{color.FgRed}, "✗"
	default:
		return []color.Attribute{color.FgCyan}, "•"
	}
}
