package session

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/directory"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/nanoid"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/structs"
	"github.com/ncobase/accountdesk/types"
)

// Login authenticates against the backend. When the backend cannot be
// reached it falls back once to the demo credential table.
func (s *Store) Login(ctx context.Context, data structs.LoginData) (*structs.Identity, error) {
	res, err := s.backend.Login(ctx, data)
	demo := false
	if errors.Is(err, ecode.ErrNetworkUnavailable) {
		s.log.Info(ctx, "Backend unreachable, using demo credentials", "handle", data.Email)
		res, err = s.demoLogin(data)
		demo = err == nil
	}
	if err != nil {
		s.notifier.Notify(ctx, notice.FromError("Login", err))
		return nil, err
	}

	if err := s.setAuth(ctx, res); err != nil {
		return nil, err
	}
	s.rememberLogin(ctx, data)

	msg := "Login successful!"
	if demo {
		msg = notice.MsgDemoLogin
	}
	s.notifier.Notify(ctx, notice.New(notice.Success, "Success", msg))
	s.log.Info(ctx, "Signed in", "user_id", res.User.ID, "role", res.User.Role, "demo", demo)
	return s.CurrentIdentity(), nil
}

func (s *Store) demoLogin(data structs.LoginData) (*structs.AuthResponse, error) {
	identity, err := directory.MatchDemo(s.demo, data.Email, data.Password, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.demoResponse(identity), nil
}

func (s *Store) demoResponse(identity *structs.Identity) *structs.AuthResponse {
	stamp := strconv.FormatInt(s.clock.Now().UnixMilli(), 10)
	return &structs.AuthResponse{
		User:         identity,
		Token:        consts.DemoTokenPrefix + stamp,
		RefreshToken: consts.DemoRefreshTokenPrefix + stamp,
		ExpiresIn:    consts.DemoTokenExpiresIn,
	}
}

// rememberLogin keeps the email for next time when asked to, and forgets it otherwise
func (s *Store) rememberLogin(ctx context.Context, data structs.LoginData) {
	var err error
	if data.RememberMe {
		err = s.drafts.Save(ctx, consts.LoginDataKey, types.JSON{"email": data.Email, "rememberMe": true})
	} else {
		err = s.drafts.Clear(ctx, consts.LoginDataKey)
	}
	if err != nil {
		s.log.Warn(ctx, "Could not update remembered login", "error", err)
	}
}

// RememberedEmail returns the email saved by a "remember me" login
func (s *Store) RememberedEmail(ctx context.Context) string {
	var saved structs.LoginData
	ok, err := s.drafts.LoadInto(ctx, consts.LoginDataKey, &saved)
	if err != nil || !ok || !saved.RememberMe {
		return ""
	}
	return saved.Email
}

// Register creates an account and signs it in. When the backend cannot be
// reached a local demo identity is created instead.
func (s *Store) Register(ctx context.Context, data structs.RegistrationData) (*structs.Identity, error) {
	res, err := s.backend.Register(ctx, data)
	demo := false
	if errors.Is(err, ecode.ErrNetworkUnavailable) {
		now := s.clock.Now()
		res = s.demoResponse(&structs.Identity{
			ID:        nanoid.DemoID(),
			FullName:  strings.TrimSpace(data.FullName),
			Email:     strings.TrimSpace(data.Email),
			Mobile:    data.Mobile,
			Role:      structs.RoleUser,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		err, demo = nil, true
	}
	if err != nil {
		s.notifier.Notify(ctx, notice.FromError("Registration", err))
		return nil, err
	}
	if err := s.setAuth(ctx, res); err != nil {
		return nil, err
	}
	if err := s.drafts.Clear(ctx, consts.RegistrationDataKey); err != nil {
		s.log.Warn(ctx, "Could not clear registration draft", "error", err)
	}

	msg := "Registration successful! Welcome to our platform!"
	if demo {
		msg = "Registration successful! (Demo Mode)"
	}
	s.notifier.Notify(ctx, notice.New(notice.Success, "Success", msg))
	return s.CurrentIdentity(), nil
}

// ForgotPassword requests a reset link. The reply never reveals whether the
// account exists, and an unreachable backend yields the same reply.
func (s *Store) ForgotPassword(ctx context.Context, data structs.ForgotPasswordData) (*structs.MessageResponse, error) {
	res, err := s.backend.ForgotPassword(ctx, data)
	if errors.Is(err, ecode.ErrNetworkUnavailable) {
		res, err = &structs.MessageResponse{Message: notice.MsgResetRequested}, nil
	}
	if err != nil {
		s.notifier.Notify(ctx, notice.FromError("Forgot Password", err))
		return nil, err
	}
	if res == nil || res.Message == "" {
		res = &structs.MessageResponse{Message: notice.MsgResetRequested}
	}
	if err := s.drafts.Clear(ctx, consts.ForgotPasswordDataKey); err != nil {
		s.log.Warn(ctx, "Could not clear forgot password draft", "error", err)
	}
	return res, nil
}

// ChangePassword changes the password of the signed-in account
func (s *Store) ChangePassword(ctx context.Context, data structs.ChangePasswordData) error {
	if !s.IsAuthenticated() {
		return ecode.ErrSessionExpired
	}
	if _, err := s.backend.ChangePassword(ctx, data); err != nil {
		return s.fail(ctx, "Change Password", err)
	}
	if err := s.drafts.Clear(ctx, consts.ChangePasswordDataKey); err != nil {
		s.log.Warn(ctx, "Could not clear change password draft", "error", err)
	}
	s.notifier.Notify(ctx, notice.New(notice.Success, "Password Changed", "Password updated successfully!"))
	return nil
}

// Refresh rotates the token pair. The identity is left unchanged.
func (s *Store) Refresh(ctx context.Context) error {
	refresh := s.RefreshTokenValue()
	if refresh == "" {
		return ecode.New(ecode.SessionExpired, "No refresh token available")
	}
	res, err := s.backend.Refresh(ctx, refresh)
	if err != nil {
		if ecode.CodeOf(err) == ecode.NoLogin {
			err = ecode.Wrap(ecode.SessionExpired, err)
		}
		return s.fail(ctx, "Token Refresh", err)
	}
	if err := s.kv.Set(ctx, consts.AuthTokenKey, res.Token); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, consts.RefreshTokenKey, res.RefreshToken); err != nil {
		return err
	}
	s.mu.Lock()
	s.token, s.refresh = res.Token, res.RefreshToken
	s.mu.Unlock()
	return nil
}

// Logout clears the session and its persisted keys
func (s *Store) Logout(ctx context.Context) error {
	err := s.clear(ctx)
	s.notifier.Notify(ctx, notice.LoggedOut())
	s.log.Info(ctx, "Signed out")
	return err
}

// DeleteAccount removes the signed-in account and clears the session
func (s *Store) DeleteAccount(ctx context.Context, password string) error {
	if !s.IsAuthenticated() {
		return ecode.ErrSessionExpired
	}
	if err := s.backend.DeleteAccount(ctx, password); err != nil {
		return s.fail(ctx, "Deleting account", err)
	}
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notice.New(notice.Success, "Account Deleted", "Your account has been deleted"))
	return nil
}

// fail reports err and ends the session when the backend rejected the token
func (s *Store) fail(ctx context.Context, op string, err error) error {
	s.notifier.Notify(ctx, notice.FromError(op, err))
	if errors.Is(err, ecode.ErrSessionExpired) {
		s.log.Info(ctx, "Session rejected by backend", "op", op)
		if cerr := s.clear(ctx); cerr != nil {
			s.log.Warn(ctx, "Could not clear session", "error", cerr)
		}
	}
	return err
}
