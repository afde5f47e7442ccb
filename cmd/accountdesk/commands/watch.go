package commands

import (
	"context"
	"io"
	"sync"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/structs"
	"github.com/spf13/cobra"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session open and enforce its idle timeout",
		Long: `Keep the session open and run its idle timer. Each line read from stdin
counts as activity and pushes the deadline back. A warning is shown shortly
before the deadline, and the session is signed out when it passes. The
command returns once the session ends or it is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				ctx := cmd.Context()
				identity := s.desk.Store.CurrentIdentity()
				if identity == nil {
					return s.require(consts.RouteProfile)
				}
				s.out.Info("Watching session of %s, expires at %s", identity.Email, formatTime(s.desk.Monitor.Deadline()))

				ended := make(chan struct{})
				var once sync.Once
				unsubscribe := s.desk.Store.Subscribe(func(id *structs.Identity) {
					if id == nil {
						once.Do(func() { close(ended) })
					}
				})
				defer unsubscribe()

				in := cmd.InOrStdin()
				stop := make(chan struct{})
				go readActivity(ctx, stop, newLineReader(in), s.desk.Activity)
				defer stopInput(in, stop)

				select {
				case <-ended:
					return nil
				case <-ctx.Done():
					s.out.Info("Stopped watching, the session stays signed in")
					return nil
				}
			})
		},
	}
}

// readActivity reports each line of input as activity until input ends or
// stop is closed. No activity is reported once stop is closed.
func readActivity(ctx context.Context, stop <-chan struct{}, in *lineReader, activity func(context.Context)) {
	for {
		if _, ok := in.next(); !ok {
			return
		}
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}
		activity(ctx)
	}
}

// stopInput ends the reader started by watch. Closable input is closed so a
// pending read returns.
func stopInput(in io.Reader, stop chan struct{}) {
	close(stop)
	if c, ok := in.(io.Closer); ok {
		_ = c.Close()
	}
}
