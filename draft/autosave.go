package draft

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/types"
)

// Autosaver debounces form changes into the draft cache. A change is saved
// once the form has been quiet for the delay, passes the validity check, and
// differs from both the baseline and the last saved values.
type Autosaver struct {
	cache *Cache
	sched *schedule.Scheduler
	key   string
	delay time.Duration
	valid func(types.JSON) bool

	onSaved func(types.JSON)
	onError func(error)

	mu        sync.Mutex
	baseline  types.JSON
	lastSaved types.JSON
	pending   types.JSON
}

// AutosaveOption configures an Autosaver
type AutosaveOption func(*Autosaver)

// WithDelay sets the debounce delay
func WithDelay(d time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		if d > 0 {
			a.delay = d
		}
	}
}

// WithValidator gates saves on a validity check
func WithValidator(valid func(types.JSON) bool) AutosaveOption {
	return func(a *Autosaver) { a.valid = valid }
}

// OnSaved is called after each successful save
func OnSaved(fn func(types.JSON)) AutosaveOption { return func(a *Autosaver) { a.onSaved = fn } }

// OnError is called when a debounced save fails
func OnError(fn func(error)) AutosaveOption { return func(a *Autosaver) { a.onError = fn } }

// NewAutosaver creates an autosaver for key
func NewAutosaver(cache *Cache, sched *schedule.Scheduler, key string, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		cache: cache,
		sched: sched,
		key:   key,
		delay: consts.DefaultAutosaveDelay,
		valid: func(types.JSON) bool { return true },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Autosaver) taskKey() string { return "draft:" + a.key }

// MarkBaseline records the values the form was loaded with
func (a *Autosaver) MarkBaseline(values types.JSON) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.baseline = clone(values)
	a.lastSaved = nil
}

// Change records the latest form values and restarts the debounce timer
func (a *Autosaver) Change(values types.JSON) {
	a.mu.Lock()
	a.pending = clone(values)
	a.mu.Unlock()

	a.sched.Schedule(a.taskKey(), a.delay, func() {
		if _, err := a.save(context.Background()); err != nil && a.onError != nil {
			a.onError(err)
		}
	})
}

// Flush saves pending values immediately. It reports whether a save happened.
func (a *Autosaver) Flush(ctx context.Context) (bool, error) {
	a.sched.Cancel(a.taskKey())
	return a.save(ctx)
}

// Stop drops any pending change
func (a *Autosaver) Stop() {
	a.sched.Cancel(a.taskKey())
	a.mu.Lock()
	a.pending = nil
	a.mu.Unlock()
}

func (a *Autosaver) save(ctx context.Context) (bool, error) {
	a.mu.Lock()
	values := a.pending
	a.pending = nil
	skip := values == nil ||
		reflect.DeepEqual(values, a.lastSaved) ||
		reflect.DeepEqual(values, a.baseline) ||
		!a.valid(values)
	a.mu.Unlock()
	if skip {
		return false, nil
	}

	if err := a.cache.Save(ctx, a.key, values); err != nil {
		return false, err
	}

	a.mu.Lock()
	a.lastSaved = values
	a.mu.Unlock()
	if a.onSaved != nil {
		a.onSaved(values)
	}
	return true, nil
}

func clone(m types.JSON) types.JSON {
	if m == nil {
		return nil
	}
	out := make(types.JSON, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
