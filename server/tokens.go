package server

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/security/jwt"
	"github.com/ncobase/accountdesk/storage/kv"
	"github.com/ncobase/accountdesk/structs"
)

// Live sessions are kept in the session store under this prefix, keyed by
// token id. Removing the entry revokes both tokens of the pair.
const sessionPrefix = "sess:"

func sessionKey(jti string) string { return sessionPrefix + jti }

// issue signs a fresh token pair for identity and records the session
func (s *Server) issue(ctx context.Context, identity *structs.Identity) (*structs.AuthResponse, error) {
	jti := uuid.NewString()
	claims := jwt.Claims{UserID: identity.ID, Email: identity.Email, Role: string(identity.Role)}
	access, err := s.tokens.GenerateAccessToken(jti, claims)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(jti, claims)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, sessionKey(jti), identity.ID); err != nil {
		return nil, err
	}
	return &structs.AuthResponse{
		User:         identity,
		Token:        access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessExpiry().Seconds()),
	}, nil
}

// session resolves a token of the given type to its live session
func (s *Server) session(ctx context.Context, token, subject string) (jti, userID string, err error) {
	claims, err := s.tokens.DecodeSubject(token, subject)
	if err != nil {
		return "", "", ecode.Wrap(ecode.SessionExpired, err)
	}
	jti = claims.ID
	userID, err = s.sessions.Get(ctx, sessionKey(jti))
	if errors.Is(err, kv.ErrNotFound) {
		return "", "", ecode.New(ecode.SessionExpired, "Session has been revoked")
	}
	if err != nil {
		return "", "", err
	}
	if userID != claims.UserID {
		return "", "", ecode.New(ecode.SessionExpired)
	}
	return jti, userID, nil
}

func (s *Server) identityFromAccess(ctx context.Context, token string) (*structs.Identity, error) {
	_, userID, err := s.session(ctx, token, jwt.SubjectAccess)
	if err != nil {
		return nil, err
	}
	identity, err := s.dir.Get(ctx, userID)
	if err != nil {
		return nil, ecode.Wrap(ecode.SessionExpired, err)
	}
	if !identity.IsActive {
		return nil, ecode.ErrAccountDeactivated
	}
	return identity, nil
}

// rotate exchanges a refresh token for a new pair, revoking the old one
func (s *Server) rotate(ctx context.Context, refresh string) (*structs.AuthResponse, error) {
	jti, userID, err := s.session(ctx, refresh, jwt.SubjectRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Remove(ctx, sessionKey(jti)); err != nil {
		return nil, err
	}
	identity, err := s.dir.Get(ctx, userID)
	if err != nil {
		return nil, ecode.Wrap(ecode.SessionExpired, err)
	}
	if !identity.IsActive {
		return nil, ecode.ErrAccountDeactivated
	}
	return s.issue(ctx, identity)
}

// revoke ends the session behind a refresh token. Unknown tokens are ignored.
func (s *Server) revoke(ctx context.Context, refresh string) error {
	jti, _, err := s.session(ctx, refresh, jwt.SubjectRefresh)
	if err != nil {
		s.log.Debug(ctx, "Ignoring logout for unknown session", "error", err)
		return nil
	}
	return s.sessions.Remove(ctx, sessionKey(jti))
}

// revokeUser ends every session of userID
func (s *Server) revokeUser(ctx context.Context, userID string) error {
	keys, err := s.sessions.Keys(ctx)
	if err != nil {
		return err
	}
	var stale []string
	for _, key := range keys {
		if !strings.HasPrefix(key, sessionPrefix) {
			continue
		}
		if id, err := s.sessions.Get(ctx, key); err == nil && id == userID {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	return s.sessions.Remove(ctx, stale...)
}
