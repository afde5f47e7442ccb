package commands

import (
	"context"
	"sort"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/structs"
	"github.com/ncobase/accountdesk/types"
	"github.com/ncobase/accountdesk/validation/validator"
	"github.com/spf13/cobra"
)

func newProfileCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit the signed-in profile",
	}
	cmd.AddCommand(
		newProfileShowCommand(a),
		newProfileEditCommand(a),
		newProfileDraftCommand(a),
		newProfileDiscardCommand(a),
	)
	return cmd
}

func newProfileShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				if err := s.require(consts.RouteProfile); err != nil {
					return err
				}
				ctx := cmd.Context()
				identity, err := s.profile(ctx)
				if err != nil {
					return err
				}
				if err := s.out.Fields([][2]string{
					{"name", identity.FullName},
					{"email", identity.Email},
					{"mobile", orDash(identity.Mobile)},
					{"date of birth", orDash(identity.DateOfBirth)},
					{"gender", orDash(identity.Gender)},
					{"address", orDash(identity.Address)},
					{"member since", formatTime(identity.CreatedAt)},
				}); err != nil {
					return err
				}
				if at, ok, err := s.desk.Drafts.SavedAt(ctx, consts.ProfileDraftKey); err == nil && ok {
					s.out.Info("Unsaved changes from %s, see 'accountdesk profile draft'", formatTime(at))
				}
				return nil
			})
		},
	}
}

// profile fetches the profile, or uses the stored identity for a demo session
func (s *shell) profile(ctx context.Context) (*structs.Identity, error) {
	if s.desk.Store.IsDemo() {
		return s.desk.Store.CurrentIdentity(), nil
	}
	return s.desk.Store.Profile(ctx)
}

// profileFlags binds the editable profile fields
type profileFlags struct {
	data structs.ProfileData
}

func (f *profileFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.data.FullName, "name", "n", "", "full name")
	fs.StringVarP(&f.data.Email, "email", "e", "", "email")
	fs.StringVarP(&f.data.Mobile, "mobile", "m", "", "10 digit mobile number")
	fs.StringVar(&f.data.DateOfBirth, "dob", "", "date of birth")
	fs.StringVar(&f.data.Gender, "gender", "", "gender")
	fs.StringVar(&f.data.Address, "address", "", "address")
}

// apply overlays the flags the user actually set onto form
func (f *profileFlags) apply(cmd *cobra.Command, form *structs.ProfileData) {
	fs := cmd.Flags()
	set := map[string]func(){
		"name":    func() { form.FullName = f.data.FullName },
		"email":   func() { form.Email = f.data.Email },
		"mobile":  func() { form.Mobile = f.data.Mobile },
		"dob":     func() { form.DateOfBirth = f.data.DateOfBirth },
		"gender":  func() { form.Gender = f.data.Gender },
		"address": func() { form.Address = f.data.Address },
	}
	for name, fn := range set {
		if fs.Changed(name) {
			fn()
		}
	}
}

func newProfileEditCommand(a *app) *cobra.Command {
	var (
		flags    profileFlags
		noSubmit bool
		fresh    bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the profile",
		Long: `Edit the profile. Fields start from the saved draft when one exists, then
from the current profile. Changes that cannot be submitted are kept as a
draft for 24 hours.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				if err := s.require(consts.RouteProfile); err != nil {
					return err
				}
				ctx := cmd.Context()
				base := structs.ProfileFromIdentity(s.desk.Store.CurrentIdentity())
				form := base
				if !fresh {
					if _, err := s.desk.Drafts.LoadInto(ctx, consts.ProfileDraftKey, &form); err != nil {
						return err
					}
				}
				flags.apply(cmd, &form)

				saver := s.desk.Autosaver(consts.ProfileDraftKey)
				defer saver.Stop()
				baseline, err := types.ToObject(base)
				if err != nil {
					return err
				}
				values, err := types.ToObject(form)
				if err != nil {
					return err
				}
				saver.MarkBaseline(baseline)
				saver.Change(values)

				keep := func() error {
					saved, err := saver.Flush(ctx)
					if saved {
						s.out.Warning("Changes kept as a draft")
					}
					return err
				}

				if noSubmit {
					if err := keep(); err != nil {
						return err
					}
					if _, ok, _ := s.desk.Drafts.SavedAt(ctx, consts.ProfileDraftKey); !ok {
						s.out.Info("Nothing to save")
					}
					return nil
				}
				if err := validator.Validate(&form); err != nil {
					if kerr := keep(); kerr != nil {
						a.log.Warn(ctx, "Could not save profile draft", "error", kerr)
					}
					return err
				}
				if _, err := s.desk.Store.UpdateProfile(ctx, form); err != nil {
					if kerr := keep(); kerr != nil {
						a.log.Warn(ctx, "Could not save profile draft", "error", kerr)
					}
					return err
				}
				saver.Stop()
				return nil
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&noSubmit, "no-submit", false, "only save the changes as a draft")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore any saved draft")
	return cmd
}

func newProfileDraftCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "draft",
		Short: "Show the saved profile draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				ctx := cmd.Context()
				values, err := s.desk.Drafts.Load(ctx, consts.ProfileDraftKey)
				if err != nil {
					return err
				}
				if values == nil {
					s.out.Info("No saved draft")
					return nil
				}
				at, _, err := s.desk.Drafts.SavedAt(ctx, consts.ProfileDraftKey)
				if err != nil {
					return err
				}

				keys := make([]string, 0, len(values))
				for k := range values {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				pairs := make([][2]string, 0, len(keys)+2)
				for _, k := range keys {
					pairs = append(pairs, [2]string{k, orDash(types.ToString(values[k]))})
				}
				pairs = append(pairs,
					[2]string{"saved at", formatTime(at)},
					[2]string{"expires at", formatTime(at.Add(s.desk.Drafts.TTL()))},
				)
				return s.out.Fields(pairs)
			})
		},
	}
}

func newProfileDiscardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Discard the saved profile draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				if err := s.desk.Drafts.Clear(cmd.Context(), consts.ProfileDraftKey); err != nil {
					return err
				}
				s.out.Success("Draft discarded")
				return nil
			})
		},
	}
}
