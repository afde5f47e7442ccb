// Package desk assembles the account core: the session store, its idle
// timeout monitor, the form draft cache and the route guard.
package desk

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ncobase/accountdesk/client"
	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/draft"
	"github.com/ncobase/accountdesk/guard"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/session"
	"github.com/ncobase/accountdesk/session/timeout"
	"github.com/ncobase/accountdesk/storage/kv"
	"github.com/ncobase/accountdesk/structs"
)

// Desk is the composed application core
type Desk struct {
	Store    *session.Store
	Monitor  *timeout.Monitor
	Drafts   *draft.Cache
	Router   *guard.Router
	Notifier notice.Notifier

	medium   kv.Store
	sched    *schedule.Scheduler
	autosave time.Duration
	log      *logger.Logger

	unsubscribe func()
	closeOnce   sync.Once
	closers     []func() error
}

type options struct {
	notifier notice.Notifier
	clock    schedule.Clock
	log      *logger.Logger
	session  *config.Session
	draft    *config.Draft
}

// Option configures a Desk
type Option func(*options)

// WithNotifier sets where notices go
func WithNotifier(n notice.Notifier) Option { return func(o *options) { o.notifier = n } }

// WithClock sets the time source shared by every component
func WithClock(c schedule.Clock) Option { return func(o *options) { o.clock = c } }

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(o *options) { o.log = l } }

// WithSessionConfig overrides the idle timeout settings
func WithSessionConfig(c *config.Session) Option { return func(o *options) { o.session = c } }

// WithDraftConfig overrides the draft settings
func WithDraftConfig(c *config.Draft) Option { return func(o *options) { o.draft = c } }

// New wires a desk on medium talking to backend
func New(medium kv.Store, backend session.Backend, opts ...Option) *Desk {
	o := &options{
		notifier: notice.Discard,
		clock:    schedule.Real(),
		log:      logger.StdLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}

	ttl, autosave := consts.DefaultDraftTTL, consts.DefaultAutosaveDelay
	if o.draft != nil {
		if o.draft.TTL > 0 {
			ttl = o.draft.TTL
		}
		if o.draft.AutosaveDelay > 0 {
			autosave = o.draft.AutosaveDelay
		}
	}
	d := &Desk{
		Drafts:   draft.New(medium, draft.WithClock(o.clock), draft.WithTTL(ttl), draft.WithLogger(o.log)),
		Notifier: o.notifier,
		medium:   medium,
		sched:    schedule.NewScheduler(o.clock),
		autosave: autosave,
		log:      o.log,
	}
	d.Store = session.New(medium, backend,
		session.WithDrafts(d.Drafts),
		session.WithNotifier(o.notifier),
		session.WithClock(o.clock),
		session.WithLogger(o.log),
		session.OnSignIn(d.signedIn),
	)

	monitorOpts := []timeout.Option{
		timeout.WithStore(medium),
		timeout.WithLogger(o.log),
		timeout.OnWarning(d.warn),
		timeout.OnExpire(d.expire),
	}
	if o.session != nil {
		monitorOpts = append(monitorOpts,
			timeout.WithTimeout(o.session.Timeout),
			timeout.WithWarningLead(o.session.WarningLead))
	}
	d.Monitor = timeout.New(d.sched, monitorOpts...)
	d.Router = guard.NewRouter(d.Store)
	d.unsubscribe = d.Store.Subscribe(d.track)
	return d
}

// Open builds a desk from configuration: the configured storage medium and
// an API client for the backend.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Desk, *client.Client, error) {
	medium, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	api := client.New(cfg.API)
	opts = append([]Option{WithSessionConfig(cfg.Session), WithDraftConfig(cfg.Draft)}, opts...)
	d := New(medium, api, opts...)
	api.SetTokenSource(d.Store)
	d.closers = append(d.closers, medium.Close)
	return d, api, nil
}

// signedIn starts a fresh cycle on every login, even for the identity already held
func (d *Desk) signedIn(ctx context.Context, identity *structs.Identity) {
	d.Monitor.Arm(ctx, identity.ID)
}

// track keeps the monitor in step with the signed-in identity
func (d *Desk) track(identity *structs.Identity) {
	ctx := context.Background()
	if identity == nil {
		d.Monitor.Disarm(ctx)
		return
	}
	state := d.Monitor.State()
	if state == timeout.Idle || state == timeout.Expired || d.Monitor.Session() != identity.ID {
		d.Monitor.Arm(ctx, identity.ID)
	}
}

func (d *Desk) warn(ctx context.Context) {
	d.Notifier.Notify(ctx, notice.SessionWarning())
}

func (d *Desk) expire(ctx context.Context) {
	d.Notifier.Notify(ctx, notice.SessionExpired())
	if err := d.Store.Logout(ctx); err != nil {
		d.log.Error(ctx, "Forced logout failed", "error", err)
	}
}

// Activity records user activity, pushing the idle deadline back
func (d *Desk) Activity(ctx context.Context) {
	d.Monitor.Activity(ctx)
}

// Navigate resolves path for the current identity
func (d *Desk) Navigate(path string) guard.Result {
	return d.Router.Navigate(path)
}

// Autosaver returns a debounced saver for the form stored under key
func (d *Desk) Autosaver(key string, opts ...draft.AutosaveOption) *draft.Autosaver {
	opts = append([]draft.AutosaveOption{draft.WithDelay(d.autosave)}, opts...)
	return draft.NewAutosaver(d.Drafts, d.sched, key, opts...)
}

// Medium returns the key-value medium holding session state
func (d *Desk) Medium() kv.Store { return d.medium }

// Scheduler exposes the desk's task scheduler
func (d *Desk) Scheduler() *schedule.Scheduler { return d.sched }

// Close stops the timers and releases the medium. In-flight session state
// stays persisted.
func (d *Desk) Close() error {
	var errs []error
	d.closeOnce.Do(func() {
		d.unsubscribe()
		d.sched.Stop()
		for _, c := range d.closers {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
