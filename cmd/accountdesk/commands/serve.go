package commands

import (
	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/server"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock account backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if addr != "" {
				a.cfg.Host = addr
			}
			srv, cleanup, err := server.Initialize(a.cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			if config.Watch(func(next *config.Config) {
				a.log.SetLevelFrom(next.Logger)
				a.log.Info(cmd.Context(), "Config reloaded", "level", next.Logger.Level)
			}) {
				a.log.Debug(cmd.Context(), "Watching config for changes")
			}
			a.printer(cmd).Info("Mock backend on http://%s/api", a.cfg.Addr())
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "host", "", "listen host (overrides server.host)")
	cmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	return cmd
}
