// Package session holds the signed-in identity and its tokens, persists them
// to a key-value medium, and notifies subscribers when they change.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/directory"
	"github.com/ncobase/accountdesk/draft"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/storage/kv"
	"github.com/ncobase/accountdesk/structs"
)

// Backend is the account API the store talks to
type Backend interface {
	Login(ctx context.Context, data structs.LoginData) (*structs.AuthResponse, error)
	Register(ctx context.Context, data structs.RegistrationData) (*structs.AuthResponse, error)
	ForgotPassword(ctx context.Context, data structs.ForgotPasswordData) (*structs.MessageResponse, error)
	ChangePassword(ctx context.Context, data structs.ChangePasswordData) (*structs.MessageResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*structs.AuthResponse, error)
	Profile(ctx context.Context) (*structs.Identity, error)
	UpdateProfile(ctx context.Context, data structs.ProfileData) (*structs.Identity, error)
	DeleteAccount(ctx context.Context, password string) error
}

// Listener receives the current identity, nil when signed out
type Listener func(*structs.Identity)

// SignInHook runs on every successful authentication, before subscribers hear of it
type SignInHook func(ctx context.Context, identity *structs.Identity)

type subscriber struct {
	id uint64
	fn Listener

	mu       sync.Mutex
	seen     uint64
	pending  []delivery
	draining bool
}

type delivery struct {
	version  uint64
	identity *structs.Identity
}

// deliver hands identity to the listener unless a newer value already went
// out. Calls to one listener never overlap; a value published from inside the
// listener is handed over once it returns.
func (sub *subscriber) deliver(version uint64, identity *structs.Identity) {
	sub.mu.Lock()
	sub.pending = append(sub.pending, delivery{version: version, identity: identity})
	if sub.draining {
		sub.mu.Unlock()
		return
	}
	sub.draining = true
	for len(sub.pending) > 0 {
		next := sub.pending[0]
		sub.pending = sub.pending[1:]
		if next.version <= sub.seen {
			continue
		}
		sub.seen = next.version
		sub.mu.Unlock()
		sub.fn(next.identity)
		sub.mu.Lock()
	}
	sub.draining = false
	sub.mu.Unlock()
}

// Store owns the session state
type Store struct {
	kv       kv.Store
	backend  Backend
	drafts   *draft.Cache
	notifier notice.Notifier
	clock    schedule.Clock
	demo     []directory.DemoAccount
	log      *logger.Logger
	onSignIn SignInHook

	mu       sync.RWMutex
	identity *structs.Identity
	token    string
	refresh  string
	version  uint64
	subs     []*subscriber
	nextSub  uint64
}

// Option configures a Store
type Option func(*Store)

// WithDrafts sets the draft cache used for form data
func WithDrafts(d *draft.Cache) Option { return func(s *Store) { s.drafts = d } }

// WithNotifier sets where user-visible notices go
func WithNotifier(n notice.Notifier) Option { return func(s *Store) { s.notifier = n } }

// WithClock sets the time source
func WithClock(c schedule.Clock) Option { return func(s *Store) { s.clock = c } }

// WithDemoAccounts replaces the offline credential table
func WithDemoAccounts(table []directory.DemoAccount) Option {
	return func(s *Store) { s.demo = table }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(s *Store) { s.log = l } }

// OnSignIn sets a hook run after every login or registration, including a
// repeat sign-in by the identity already held.
func OnSignIn(fn SignInHook) Option { return func(s *Store) { s.onSignIn = fn } }

// New creates a store on medium and restores any persisted session.
func New(medium kv.Store, backend Backend, opts ...Option) *Store {
	s := &Store{
		kv:       medium,
		backend:  backend,
		notifier: notice.Discard,
		clock:    schedule.Real(),
		demo:     directory.DemoAccounts(),
		log:      logger.StdLogger(),
		version:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.drafts == nil {
		s.drafts = draft.New(medium, draft.WithClock(s.clock), draft.WithLogger(s.log))
	}
	if err := s.restore(context.Background()); err != nil {
		s.log.Warn(context.Background(), "Could not restore session", "error", err)
	}
	return s
}

func (s *Store) restore(ctx context.Context) error {
	token, err := s.getOptional(ctx, consts.AuthTokenKey)
	if err != nil {
		return err
	}
	refresh, err := s.getOptional(ctx, consts.RefreshTokenKey)
	if err != nil {
		return err
	}
	var identity *structs.Identity
	var cached structs.Identity
	switch err := kv.GetJSON(ctx, s.kv, consts.UserDataKey, &cached); {
	case err == nil:
		identity = &cached
	case errors.Is(err, kv.ErrNotFound):
	default:
		s.log.Warn(ctx, "Discarding unreadable user data", "error", err)
	}

	s.mu.Lock()
	s.token, s.refresh, s.identity = token, refresh, identity
	s.mu.Unlock()
	return nil
}

func (s *Store) getOptional(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// CurrentIdentity returns a snapshot of the signed-in identity.
// It is nil whenever no token is held, even if an identity is cached.
func (s *Store) CurrentIdentity() *structs.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

func (s *Store) currentLocked() *structs.Identity {
	if s.token == "" {
		return nil
	}
	return s.identity.Clone()
}

// Token returns the access token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RefreshTokenValue returns the refresh token
func (s *Store) RefreshTokenValue() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// IsAuthenticated reports whether a token is held
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsDemo reports whether the session was issued by the offline fallback
func (s *Store) IsDemo() bool {
	return strings.HasPrefix(s.Token(), consts.DemoTokenPrefix)
}

// Drafts returns the form draft cache
func (s *Store) Drafts() *draft.Cache { return s.drafts }

// Subscribe registers fn. It is called at once with the current identity and
// then after every change, in subscription order. A listener never sees an
// older value after a newer one. The returned func unsubscribes.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSub++
	sub := &subscriber{id: s.nextSub, fn: fn}
	s.subs = append(s.subs, sub)
	current, version := s.currentLocked(), s.version
	s.mu.Unlock()

	sub.deliver(version, current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, other := range s.subs {
				if other == sub {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// publish delivers identity, stamped with version, to subscribers outside the lock
func (s *Store) publish(version uint64, identity *structs.Identity) {
	s.mu.RLock()
	subs := append([]*subscriber(nil), s.subs...)
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.deliver(version, identity.Clone())
	}
}

// setAuth persists a successful authentication and publishes the identity
func (s *Store) setAuth(ctx context.Context, res *structs.AuthResponse) error {
	if res == nil || res.Token == "" || res.User == nil {
		return errors.New("session: incomplete authentication response")
	}
	identity := res.User.Clone()
	identity.Role = structs.NormalizeRole(string(identity.Role))

	// The token goes last so a partial write never pairs it with stale user data.
	if err := s.kv.Remove(ctx, consts.AuthTokenKey); err != nil {
		return err
	}
	if err := kv.SetJSON(ctx, s.kv, consts.UserDataKey, identity); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, consts.RefreshTokenKey, res.RefreshToken); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, consts.AuthTokenKey, res.Token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token, s.refresh, s.identity = res.Token, res.RefreshToken, identity
	s.version++
	version := s.version
	s.mu.Unlock()

	if s.onSignIn != nil {
		s.onSignIn(ctx, identity.Clone())
	}
	s.publish(version, identity)
	return nil
}

// setIdentity replaces the cached identity of the current session
func (s *Store) setIdentity(ctx context.Context, identity *structs.Identity) error {
	if identity == nil {
		return nil
	}
	identity = identity.Clone()
	identity.Role = structs.NormalizeRole(string(identity.Role))
	if err := kv.SetJSON(ctx, s.kv, consts.UserDataKey, identity); err != nil {
		return err
	}
	s.mu.Lock()
	s.identity = identity
	s.version++
	version := s.version
	s.mu.Unlock()
	s.publish(version, identity)
	return nil
}

// clear drops all session state and publishes nil
func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	s.token, s.refresh, s.identity = "", "", nil
	s.version++
	version := s.version
	s.mu.Unlock()

	err := s.kv.Remove(ctx, consts.SessionKeys...)
	if derr := s.drafts.Clear(ctx, consts.RegistrationDataKey); derr != nil && err == nil {
		err = derr
	}
	s.publish(version, nil)
	return err
}
