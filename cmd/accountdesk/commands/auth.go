package commands

import (
	"strings"
	"time"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/guard"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/structs"
	"github.com/ncobase/accountdesk/validation/validator"
	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var (
		data      structs.LoginData
		returnURL string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with email and password. The password is read from stdin when
--password is not given. When the backend cannot be reached, the demo
accounts are accepted instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				ctx := cmd.Context()
				if data.Email == "" {
					data.Email = s.desk.Store.RememberedEmail(ctx)
				}
				pw, err := secret(cmd, newLineReader(cmd.InOrStdin()), data.Password, "Password")
				if err != nil {
					return err
				}
				data.Password = pw
				data.Email = strings.TrimSpace(data.Email)
				if err := validator.Validate(&data); err != nil {
					return err
				}

				identity, err := s.desk.Store.Login(ctx, data)
				if err != nil {
					return err
				}
				s.out.Success("Signed in as %s (%s)", identity.FullName, identity.Role)

				dest := guard.HomeFor(identity.Role)
				if returnURL != "" {
					dest = returnURL
				}
				res := s.desk.Navigate(dest)
				s.out.Info("Continue at %s", res.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&data.Email, "email", "e", "", "account email (defaults to the remembered one)")
	cmd.Flags().StringVarP(&data.Password, "password", "p", "", "account password")
	cmd.Flags().BoolVarP(&data.RememberMe, "remember", "r", false, "remember the email for next time")
	cmd.Flags().StringVar(&returnURL, "return-url", "", "page to continue at after signing in")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				ctx := cmd.Context()
				store := s.desk.Store
				if !store.IsAuthenticated() {
					s.out.Info("Not signed in")
				} else if refresh := store.RefreshTokenValue(); refresh != "" && !store.IsDemo() {
					// The local session is cleared regardless of the backend's answer
					if err := s.api.Logout(ctx, refresh); err != nil {
						a.log.Warn(ctx, "Backend logout failed", "error", err)
					}
				}
				return store.Logout(ctx)
			})
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account and its session deadlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				identity := s.desk.Store.CurrentIdentity()
				if identity == nil {
					s.out.Info("Not signed in")
					return nil
				}
				warnAt := storedTime(s, cmd, consts.WarningTimeoutKey)
				expireAt := storedTime(s, cmd, consts.SessionTimeoutKey)
				return s.out.Fields([][2]string{
					{"id", identity.ID},
					{"name", identity.FullName},
					{"email", identity.Email},
					{"username", orDash(identity.Username)},
					{"role", string(identity.Role)},
					{"active", yesNo(identity.IsActive)},
					{"verified", yesNo(identity.IsEmailVerified)},
					{"demo", yesNo(s.desk.Store.IsDemo())},
					{"warning at", formatTime(warnAt)},
					{"expires at", formatTime(expireAt)},
				})
			})
		},
	}
}

// storedTime reads a persisted RFC3339 deadline, zero when absent
func storedTime(s *shell, cmd *cobra.Command, key string) time.Time {
	raw, err := s.desk.Medium().Get(cmd.Context(), key)
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func newRegisterCommand(a *app) *cobra.Command {
	var data structs.RegistrationData
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create an account and sign in. Password and confirmation are read from
stdin, one per line, when not given as flags. Values entered before a failed
attempt are kept as a draft and reused next time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				ctx := cmd.Context()
				store := s.desk.Store

				var saved structs.RegistrationData
				if _, err := store.Drafts().LoadInto(ctx, consts.RegistrationDataKey, &saved); err != nil {
					return err
				}
				fillRegistration(&data, saved)

				in := newLineReader(cmd.InOrStdin())
				var err error
				if data.Password, err = secret(cmd, in, data.Password, "Password"); err != nil {
					return err
				}
				if data.ConfirmPassword, err = secret(cmd, in, data.ConfirmPassword, "Confirm password"); err != nil {
					return err
				}

				// passwords never reach the draft
				if err := store.Drafts().SaveStruct(ctx, consts.RegistrationDataKey, structs.RegistrationData{
					FullName: data.FullName, Email: data.Email, Mobile: data.Mobile, Terms: data.Terms,
				}); err != nil {
					a.log.Warn(ctx, "Could not save registration draft", "error", err)
				}
				if err := validator.Validate(&data); err != nil {
					return err
				}

				identity, err := store.Register(ctx, data)
				if err != nil {
					return err
				}
				s.out.Success("Welcome, %s", identity.FullName)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&data.FullName, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&data.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&data.Mobile, "mobile", "m", "", "mobile number")
	cmd.Flags().StringVarP(&data.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&data.ConfirmPassword, "confirm-password", "", "password again")
	cmd.Flags().BoolVar(&data.Terms, "accept-terms", false, "accept the terms of service")
	return cmd
}

// fillRegistration completes missing flag values from a saved draft
func fillRegistration(data *structs.RegistrationData, saved structs.RegistrationData) {
	if data.FullName == "" {
		data.FullName = saved.FullName
	}
	if data.Email == "" {
		data.Email = saved.Email
	}
	if data.Mobile == "" {
		data.Mobile = saved.Mobile
	}
	data.Terms = data.Terms || saved.Terms
}

func newForgotPasswordCommand(a *app) *cobra.Command {
	var data structs.ForgotPasswordData
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				data.Email = strings.TrimSpace(data.Email)
				if err := validator.Validate(&data); err != nil {
					return err
				}
				res, err := s.desk.Store.ForgotPassword(cmd.Context(), data)
				if err != nil {
					return err
				}
				s.out.Success("%s", res.Message)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&data.Email, "email", "e", "", "account email")
	return cmd
}

func newChangePasswordCommand(a *app) *cobra.Command {
	var data structs.ChangePasswordData
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the signed-in account",
		Long: `Change the password of the signed-in account. The current password, the
new one and its confirmation are read from stdin, one per line, when not
given as flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				if err := s.require(consts.RouteChangePassword); err != nil {
					return err
				}
				in := newLineReader(cmd.InOrStdin())
				var err error
				if data.CurrentPassword, err = secret(cmd, in, data.CurrentPassword, "Current password"); err != nil {
					return err
				}
				if data.NewPassword, err = secret(cmd, in, data.NewPassword, "New password"); err != nil {
					return err
				}
				if data.ConfirmPassword, err = secret(cmd, in, data.ConfirmPassword, "Confirm password"); err != nil {
					return err
				}
				if err := validator.Validate(&data); err != nil {
					return err
				}
				return s.desk.Store.ChangePassword(cmd.Context(), data)
			})
		},
	}
	cmd.Flags().StringVar(&data.CurrentPassword, "current", "", "current password")
	cmd.Flags().StringVar(&data.NewPassword, "new", "", "new password")
	cmd.Flags().StringVar(&data.ConfirmPassword, "confirm", "", "new password again")
	return cmd
}

func newRefreshCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rotate the session tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				if err := s.desk.Store.Refresh(cmd.Context()); err != nil {
					return err
				}
				s.out.Success("Tokens refreshed")
				return nil
			})
		},
	}
}

// require applies the route guard for path and explains a refusal
func (s *shell) require(path string) error {
	res := s.desk.Navigate(path)
	switch res.Decision.Outcome {
	case guard.Allow:
		return nil
	case guard.RedirectToLogin:
		s.out.Warning("Sign in first, then continue at %s", res.Requested)
		return ecode.New(ecode.NoLogin, notice.MsgLoginRequired)
	default:
		return ecode.New(ecode.AccessDenied, notice.MsgAdminRequired)
	}
}
