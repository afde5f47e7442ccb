// Package commands implements the accountdesk command line.
package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ncobase/accountdesk/client"
	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/desk"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/notice"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation
type app struct {
	configFile string
	noColor    bool

	cfg     *config.Config
	log     *logger.Logger
	cleanup func()
}

// shell is an opened desk plus the helpers a command prints with
type shell struct {
	desk *desk.Desk
	api  *client.Client
	out  *printer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "accountdesk",
		Short: "Account and session desk",
		Long: `accountdesk signs you in against the account backend, keeps the session
and its idle timeout in local storage, and saves form drafts between runs.

Example usage:
  accountdesk serve &                                 # start the mock backend
  accountdesk login -e admin@example.com -p admin123  # sign in
  accountdesk whoami                                  # show the session
  accountdesk users list                              # admin only
  accountdesk logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newRegisterCommand(a),
		newForgotPasswordCommand(a),
		newChangePasswordCommand(a),
		newRefreshCommand(a),
		newProfileCommand(a),
		newNavigateCommand(a),
		newUsersCommand(a),
		newWatchCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// init loads configuration and sets up logging
func (a *app) init() error {
	cfg, err := config.LoadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	a.cfg, a.log, a.cleanup = cfg, logger.StdLogger(), cleanup
	return nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

func (a *app) colors() bool {
	if a.noColor || color.NoColor {
		return false
	}
	_, off := os.LookupEnv("NO_COLOR")
	return !off
}

func (a *app) printer(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.colors())
}

// open builds the desk for one command. Notices go to stderr.
func (a *app) open(cmd *cobra.Command) (*shell, error) {
	d, api, err := desk.Open(cmd.Context(), a.cfg,
		desk.WithNotifier(notice.NewConsoleNotifier(cmd.ErrOrStderr(), a.colors())),
		desk.WithLogger(a.log),
	)
	if err != nil {
		return nil, fmt.Errorf("opening session storage: %w", err)
	}
	return &shell{desk: d, api: api, out: a.printer(cmd)}, nil
}

// run opens the desk, hands it to fn and closes it afterwards
func (a *app) run(cmd *cobra.Command, fn func(s *shell) error) error {
	s, err := a.open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.desk.Close(); cerr != nil {
			a.log.Warn(cmd.Context(), "Closing desk failed", "error", cerr)
		}
	}()
	return fn(s)
}
