// Package timeout ends idle sessions. After each sign-in or activity it
// schedules a warning shortly before the deadline and a forced sign-out at it.
package timeout

import (
	"context"
	"sync"
	"time"

	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/storage/kv"
)

// State of the monitor
type State int

const (
	Idle State = iota
	Armed
	WarningIssued
	Expired
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case WarningIssued:
		return "warning"
	case Expired:
		return "expired"
	default:
		return "idle"
	}
}

const keyPrefix = "session:"

// Monitor tracks one session's idle deadline
type Monitor struct {
	sched     *schedule.Scheduler
	store     kv.Store
	timeout   time.Duration
	lead      time.Duration
	onWarning func(context.Context)
	onExpire  func(context.Context)
	log       *logger.Logger

	mu       sync.Mutex
	state    State
	session  string
	gen      uint64
	deadline time.Time
}

// Option configures a Monitor
type Option func(*Monitor)

// WithTimeout sets the idle timeout
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithWarningLead sets how long before the deadline the warning fires
func WithWarningLead(d time.Duration) Option { return func(m *Monitor) { m.lead = d } }

// WithStore persists the deadlines under session_timeout and warning_timeout
func WithStore(s kv.Store) Option { return func(m *Monitor) { m.store = s } }

// OnWarning sets the warning callback
func OnWarning(fn func(context.Context)) Option { return func(m *Monitor) { m.onWarning = fn } }

// OnExpire sets the expiry callback
func OnExpire(fn func(context.Context)) Option { return func(m *Monitor) { m.onExpire = fn } }

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(m *Monitor) { m.log = l } }

// New creates an idle monitor
func New(sched *schedule.Scheduler, opts ...Option) *Monitor {
	m := &Monitor{
		sched:     sched,
		timeout:   consts.DefaultSessionTimeout,
		lead:      consts.DefaultWarningLead,
		onWarning: func(context.Context) {},
		onExpire:  func(context.Context) {},
		log:       logger.StdLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.lead >= m.timeout {
		m.lead = 0
	}
	return m
}

func warnKey(session string) string   { return keyPrefix + session + ":warn" }
func expireKey(session string) string { return keyPrefix + session + ":expire" }

// Arm starts a fresh timeout cycle for session, cancelling any pending one.
func (m *Monitor) Arm(ctx context.Context, session string) {
	m.mu.Lock()
	m.sched.CancelPrefix(keyPrefix)
	m.gen++
	gen := m.gen
	m.state = Armed
	m.session = session
	now := m.sched.Clock().Now()
	m.deadline = now.Add(m.timeout)
	deadline := m.deadline
	var warnAt time.Time
	if m.lead > 0 {
		warnAt = deadline.Add(-m.lead)
		m.sched.Schedule(warnKey(session), m.timeout-m.lead, func() { m.warn(gen) })
	}
	m.sched.Schedule(expireKey(session), m.timeout, func() { m.expire(gen) })
	m.mu.Unlock()

	m.persist(ctx, deadline, warnAt)
	m.log.Debug(ctx, "Session timeout armed", "session", session, "deadline", deadline)
}

// Activity restarts the cycle of the tracked session, including one that has
// already expired. It is ignored when idle.
func (m *Monitor) Activity(ctx context.Context) {
	m.mu.Lock()
	state, session := m.state, m.session
	m.mu.Unlock()
	if state == Idle {
		return
	}
	m.Arm(ctx, session)
}

// Disarm cancels pending timers and returns to Idle
func (m *Monitor) Disarm(ctx context.Context) {
	m.mu.Lock()
	m.gen++
	m.sched.CancelPrefix(keyPrefix)
	wasIdle := m.state == Idle
	m.state = Idle
	m.session = ""
	m.deadline = time.Time{}
	m.mu.Unlock()

	if m.store != nil && !wasIdle {
		if err := m.store.Remove(ctx, consts.SessionTimeoutKey, consts.WarningTimeoutKey); err != nil {
			m.log.Warn(ctx, "Could not clear session deadlines", "error", err)
		}
	}
}

func (m *Monitor) warn(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != Armed {
		m.mu.Unlock()
		return
	}
	m.state = WarningIssued
	m.mu.Unlock()

	m.onWarning(context.Background())
}

func (m *Monitor) expire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || (m.state != Armed && m.state != WarningIssued) {
		m.mu.Unlock()
		return
	}
	m.state = Expired
	m.sched.CancelPrefix(keyPrefix)
	session := m.session
	m.mu.Unlock()

	ctx := context.Background()
	m.log.Info(ctx, "Session expired after inactivity", "session", session)
	m.onExpire(ctx)
}

func (m *Monitor) persist(ctx context.Context, deadline, warnAt time.Time) {
	if m.store == nil {
		return
	}
	if err := m.store.Set(ctx, consts.SessionTimeoutKey, deadline.UTC().Format(time.RFC3339)); err != nil {
		m.log.Warn(ctx, "Could not persist session deadline", "error", err)
	}
	if warnAt.IsZero() {
		return
	}
	if err := m.store.Set(ctx, consts.WarningTimeoutKey, warnAt.UTC().Format(time.RFC3339)); err != nil {
		m.log.Warn(ctx, "Could not persist warning deadline", "error", err)
	}
}

// State returns the current state
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns the id of the armed session
func (m *Monitor) Session() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Deadline returns when the session will be ended; zero when not armed
func (m *Monitor) Deadline() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Armed && m.state != WarningIssued {
		return time.Time{}
	}
	return m.deadline
}

// Remaining returns the time left before the forced sign-out
func (m *Monitor) Remaining() time.Duration {
	deadline := m.Deadline()
	if deadline.IsZero() {
		return 0
	}
	if left := deadline.Sub(m.sched.Clock().Now()); left > 0 {
		return left
	}
	return 0
}
