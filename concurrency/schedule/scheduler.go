// Package schedule runs cancellable delayed tasks keyed by name.
package schedule

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler holds at most one pending task per key. Scheduling a key that is
// already pending replaces it; a replaced or cancelled task never runs.
type Scheduler struct {
	clock Clock

	mu    sync.Mutex
	gen   uint64
	tasks map[string]*task

	scheduled atomic.Int64
	fired     atomic.Int64
	cancelled atomic.Int64
}

type task struct {
	gen   uint64
	timer Timer
	at    time.Time
}

// NewScheduler creates a scheduler on clock; nil means the wall clock
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = Real()
	}
	return &Scheduler{clock: clock, tasks: make(map[string]*task)}
}

// Clock returns the scheduler's clock
func (s *Scheduler) Clock() Clock { return s.clock }

// Schedule runs fn after d under key, replacing any pending task with that key
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tasks[key]; ok {
		prev.timer.Stop()
		s.cancelled.Add(1)
	}
	s.gen++
	gen := s.gen
	t := &task{gen: gen, at: s.clock.Now().Add(d)}
	s.tasks[key] = t
	// Assign under the lock so a zero-delay fire cannot observe a nil timer.
	t.timer = s.clock.AfterFunc(d, func() { s.fire(key, gen, fn) })
	s.scheduled.Add(1)
}

func (s *Scheduler) fire(key string, gen uint64, fn func()) {
	s.mu.Lock()
	cur, ok := s.tasks[key]
	if !ok || cur.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, key)
	s.mu.Unlock()

	s.fired.Add(1)
	fn()
}

// Cancel stops the task under key. It reports whether one was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(key)
}

func (s *Scheduler) cancelLocked(key string) bool {
	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, key)
	s.cancelled.Add(1)
	return true
}

// CancelPrefix stops every task whose key starts with prefix
func (s *Scheduler) CancelPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.tasks {
		if strings.HasPrefix(key, prefix) && s.cancelLocked(key) {
			n++
		}
	}
	return n
}

// Due returns when the task under key will run
func (s *Scheduler) Due(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[key]
	if !ok {
		return time.Time{}, false
	}
	return t.at, true
}

// Pending lists keys with a task waiting to run
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.tasks))
	for k := range s.tasks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stop cancels everything
func (s *Scheduler) Stop() {
	s.CancelPrefix("")
}

// GetMetrics returns current metrics
func (s *Scheduler) GetMetrics() map[string]int64 {
	s.mu.Lock()
	pending := int64(len(s.tasks))
	s.mu.Unlock()
	return map[string]int64{
		"pending":   pending,
		"scheduled": s.scheduled.Load(),
		"fired":     s.fired.Load(),
		"cancelled": s.cancelled.Load(),
	}
}
