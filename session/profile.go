package session

import (
	"context"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/structs"
	"github.com/ncobase/accountdesk/types"
)

// Profile fetches the identity from the backend and publishes it
func (s *Store) Profile(ctx context.Context) (*structs.Identity, error) {
	if !s.IsAuthenticated() {
		return nil, ecode.ErrSessionExpired
	}
	identity, err := s.backend.Profile(ctx)
	if err != nil {
		return nil, s.fail(ctx, "Fetching profile", err)
	}
	if err := s.setIdentity(ctx, identity); err != nil {
		return nil, err
	}
	return s.CurrentIdentity(), nil
}

// UpdateProfile saves the profile form, publishes the result and drops the draft
func (s *Store) UpdateProfile(ctx context.Context, data structs.ProfileData) (*structs.Identity, error) {
	if !s.IsAuthenticated() {
		return nil, ecode.ErrSessionExpired
	}
	identity, err := s.backend.UpdateProfile(ctx, data)
	if err != nil {
		return nil, s.fail(ctx, "Updating profile", err)
	}
	if err := s.setIdentity(ctx, identity); err != nil {
		return nil, err
	}
	if err := s.drafts.Clear(ctx, consts.ProfileDraftKey); err != nil {
		s.log.Warn(ctx, "Could not clear profile draft", "error", err)
	}
	s.notifier.Notify(ctx, notice.New(notice.Success, "Success", "Profile updated successfully!"))
	return s.CurrentIdentity(), nil
}

// SaveForm merges values into the draft stored under key
func (s *Store) SaveForm(ctx context.Context, key string, values types.JSON) error {
	return s.drafts.Save(ctx, key, values)
}

// LoadForm returns the live draft under key, or nil
func (s *Store) LoadForm(ctx context.Context, key string) (types.JSON, error) {
	return s.drafts.Load(ctx, key)
}

// ClearForm drops the draft under key
func (s *Store) ClearForm(ctx context.Context, key string) error {
	return s.drafts.Clear(ctx, key)
}
