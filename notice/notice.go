// Package notice delivers short user-visible messages: login results,
// session expiry warnings and operation failures.
package notice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ncobase/accountdesk/ecode"
)

// Level is the severity of a notice
type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// DefaultDuration is how long a notice stays visible unless set otherwise
const DefaultDuration = 5 * time.Second

// Standard messages
const (
	MsgLoggedOut      = "You have been logged out successfully."
	MsgSessionWarning = "Your session will expire in 5 minutes. Please save your work."
	MsgSessionExpired = "Your session has expired due to inactivity. Please log in again."
	MsgLoginRequired  = "Please log in to access this page."
	MsgAdminRequired  = "Access denied. Admin privileges required."
	MsgDemoLogin      = "Login successful! (Demo Mode)"
	MsgDeactivated    = "Your account has been deactivated. Please contact support."
	MsgBadCredentials = "Invalid email/username or password. Please try again."
	MsgUnreachable    = "Unable to connect to the server. Please check your internet connection."
	MsgReLogin        = "Session expired. Please log in again."
	MsgGeneric        = "An error occurred. Please try again later."
	MsgFixValidation  = "Please fix all validation errors before submitting."
	MsgResetRequested = "If an account with this email exists, a password reset link has been sent."
)

// Notice is a transient message shown to the user
type Notice struct {
	Level    Level         `json:"level"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// New creates a notice with the default duration
func New(level Level, title, message string) Notice {
	return Notice{Level: level, Title: title, Message: message, Duration: DefaultDuration}
}

// WithDuration returns a copy of n shown for d
func (n Notice) WithDuration(d time.Duration) Notice {
	n.Duration = d
	return n
}

// Notifier shows notices
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Discard drops every notice
var Discard Notifier = NotifierFunc(func(context.Context, Notice) {})

// Multi fans a notice out to every notifier in order
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notice) {
		for _, nt := range notifiers {
			if nt != nil {
				nt.Notify(ctx, n)
			}
		}
	})
}

// SessionWarning is raised five minutes before the session expires
func SessionWarning() Notice {
	return New(Warning, "Session Expiring Soon", MsgSessionWarning).WithDuration(10 * time.Second)
}

// SessionExpired is raised when the idle session is terminated
func SessionExpired() Notice {
	return New(Error, "Session Expired", MsgSessionExpired)
}

// LoggedOut is raised after an explicit logout
func LoggedOut() Notice {
	return New(Info, "Logged Out", MsgLoggedOut)
}

// FromError maps err to a notice titled after op.
func FromError(op string, err error) Notice {
	title := op + " Failed"
	var ve *ecode.ValidationError
	switch {
	case errors.As(err, &ve):
		return New(Error, "Validation Error", MsgFixValidation)
	case errors.Is(err, ecode.ErrInvalidCredentials):
		return New(Error, "Login Failed", MsgBadCredentials)
	case errors.Is(err, ecode.ErrAccountDeactivated):
		return New(Error, "Account Deactivated", MsgDeactivated)
	case errors.Is(err, ecode.ErrNetworkUnavailable):
		return New(Error, title, MsgUnreachable)
	case errors.Is(err, ecode.ErrSessionExpired):
		return New(Error, title, MsgReLogin)
	case errors.Is(err, ecode.ErrAccessDenied):
		return New(Error, "Unauthorized", MsgAdminRequired)
	}
	var e *ecode.Error
	if errors.As(err, &e) && e.Message != "" {
		return New(Error, title, e.Message)
	}
	return New(Error, title, MsgGeneric)
}

// Recorder keeps notices in memory
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Reset forgets all notices
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}
