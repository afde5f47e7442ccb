package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/structs"
	"github.com/ncobase/accountdesk/validation/validator"
	"github.com/spf13/cobra"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin only)",
	}
	cmd.AddCommand(
		newUsersListCommand(a),
		newUsersCreateCommand(a),
		newUsersUpdateCommand(a),
		newUsersToggleCommand(a),
		newUsersDeleteCommand(a),
		newUsersResetCommand(a),
		newUsersStatsCommand(a),
	)
	return cmd
}

// admin runs fn once the guard has let the session into the admin dashboard.
// A rejected token ends the local session.
func (a *app) admin(cmd *cobra.Command, fn func(ctx context.Context, s *shell) error) error {
	return a.run(cmd, func(s *shell) error {
		if err := s.require(consts.RouteAdminDashboard); err != nil {
			return err
		}
		ctx := cmd.Context()
		err := fn(ctx, s)
		if errors.Is(err, ecode.ErrSessionExpired) {
			if lerr := s.desk.Store.Logout(ctx); lerr != nil {
				a.log.Warn(ctx, "Could not clear session", "error", lerr)
			}
		}
		return err
	})
}

func userRows(users []*structs.Identity) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		status := "inactive"
		if u.IsActive {
			status = "active"
		}
		rows = append(rows, []string{
			u.ID, u.FullName, u.Email, string(u.Role), status,
			yesNo(u.IsEmailVerified), formatTime(u.CreatedAt),
		})
	}
	return rows
}

var userHeaders = []string{"id", "name", "email", "role", "status", "verified", "created"}

func newUsersListCommand(a *app) *cobra.Command {
	var (
		filter structs.UserFilter
		role   string
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch structs.UserStatus(status) {
			case structs.StatusAll, structs.StatusActive, structs.StatusInactive:
				filter.Status = structs.UserStatus(status)
			default:
				return ecode.NewValidationError(map[string]string{"status": "Status must be active or inactive"})
			}
			if role != "" {
				filter.Role = structs.NormalizeRole(role)
			}
			return a.admin(cmd, func(ctx context.Context, s *shell) error {
				users, err := s.api.ListUsers(ctx, filter)
				if err != nil {
					return err
				}
				if len(users) == 0 {
					s.out.Info("No accounts match")
					return nil
				}
				return s.out.Table(userHeaders, userRows(users))
			})
		},
	}
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "match name or email")
	cmd.Flags().StringVar(&role, "role", "", "admin or user")
	cmd.Flags().StringVar(&status, "status", "", "active or inactive")
	return cmd
}

func newUsersCreateCommand(a *app) *cobra.Command {
	var (
		body     structs.CreateUserBody
		role     string
		inactive bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.admin(cmd, func(ctx context.Context, s *shell) error {
				pw, err := secret(cmd, newLineReader(cmd.InOrStdin()), body.Password, "Password")
				if err != nil {
					return err
				}
				body.Password = pw
				body.Role = structs.NormalizeRole(role)
				if inactive {
					active := false
					body.IsActive = &active
				}
				if err := validator.Validate(&body); err != nil {
					return err
				}
				u, err := s.api.CreateUser(ctx, body)
				if err != nil {
					return err
				}
				s.out.Success("Created %s (%s) with id %s", u.FullName, u.Email, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&body.FullName, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&body.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&body.Mobile, "mobile", "m", "", "mobile number")
	cmd.Flags().StringVarP(&body.Password, "password", "p", "", "initial password")
	cmd.Flags().StringVar(&role, "role", consts.RoleUser, "admin or user")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the account deactivated")
	return cmd
}

func newUsersUpdateCommand(a *app) *cobra.Command {
	var (
		name, email, mobile, role string
		verified                  bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body structs.UpdateUserBody
			fs := cmd.Flags()
			if fs.Changed("name") {
				body.FullName = &name
			}
			if fs.Changed("email") {
				body.Email = &email
			}
			if fs.Changed("mobile") {
				body.Mobile = &mobile
			}
			if fs.Changed("role") {
				r := structs.NormalizeRole(role)
				body.Role = &r
			}
			if fs.Changed("verified") {
				body.IsEmailVerified = &verified
			}
			return a.admin(cmd, func(ctx context.Context, s *shell) error {
				u, err := s.api.UpdateUser(ctx, args[0], body)
				if err != nil {
					return err
				}
				s.out.Success("Updated %s", u.Email)
				return s.out.Table(userHeaders, userRows([]*structs.Identity{u}))
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&mobile, "mobile", "m", "", "mobile number")
	cmd.Flags().StringVar(&role, "role", "", "admin or user")
	cmd.Flags().BoolVar(&verified, "verified", false, "mark the email verified")
	return cmd
}

func newUsersToggleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or deactivate an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.admin(cmd, func(ctx context.Context, s *shell) error {
				u, err := s.api.ToggleUserStatus(ctx, args[0])
				if err != nil {
					return err
				}
				state := "deactivated"
				if u.IsActive {
					state = "activated"
				}
				s.out.Success("%s %s", u.Email, state)
				return nil
			})
		},
	}
}

func newUsersDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.admin(cmd, func(ctx context.Context, s *shell) error {
				if err := s.api.DeleteUser(ctx, args[0]); err != nil {
					return err
				}
				s.out.Success("Deleted account %s", args[0])
				return nil
			})
		},
	}
}

func newUsersResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <id>",
		Short: "Reset an account's password to a temporary one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.admin(cmd, func(ctx context.Context, s *shell) error {
				res, err := s.api.ResetUserPassword(ctx, args[0])
				if err != nil {
					return err
				}
				s.out.Success("%s", res.Message)
				if res.TemporaryPassword != "" {
					s.out.Info("Temporary password: %s", res.TemporaryPassword)
				}
				return nil
			})
		},
	}
}

func newUsersStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show account statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.admin(cmd, func(ctx context.Context, s *shell) error {
				st, err := s.api.Stats(ctx)
				if err != nil {
					return err
				}
				return s.out.Fields([][2]string{
					{"total", strconv.Itoa(st.TotalUsers)},
					{"active", strconv.Itoa(st.ActiveUsers)},
					{"inactive", strconv.Itoa(st.InactiveUsers)},
					{"new this week", strconv.Itoa(st.NewRegistrations)},
					{"admins", strconv.Itoa(st.AdminAccounts)},
				})
			})
		},
	}
}
