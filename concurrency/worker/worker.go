package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ncobase/accountdesk/logging/logger"
)

var (
	ErrQueueFull = errors.New("task queue is full")
	ErrStopped   = errors.New("pool is stopped")
)

// Config sizes a Pool
type Config struct {
	MaxWorkers   int
	QueueSize    int
	TaskTimeout  time.Duration // zero means jobs run without a deadline
	DrainTimeout time.Duration // how long the provider cleanup waits for queued jobs
}

func DefaultConfig() *Config {
	return &Config{
		MaxWorkers:   2,
		QueueSize:    100,
		TaskTimeout:  30 * time.Second,
		DrainTimeout: 10 * time.Second,
	}
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.MaxWorkers < 1:
		return errors.New("max workers must be greater than 0")
	case cfg.QueueSize < 1:
		return errors.New("queue size must be greater than 0")
	case cfg.TaskTimeout < 0, cfg.DrainTimeout < 0:
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// Job is a unit of background work. ctx is cancelled at the task timeout.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Stats is a snapshot of pool counters
type Stats struct {
	Active    int64
	Pending   int64
	Completed int64
	Failed    int64
}

// Idle reports whether nothing is queued or running
func (s Stats) Idle() bool { return s.Active == 0 && s.Pending == 0 }

// Pool runs submitted jobs on a fixed set of goroutines
type Pool struct {
	size    int
	timeout time.Duration
	log     *logger.Logger

	mu      sync.RWMutex
	stopped bool
	queue   chan Job
	wg      sync.WaitGroup

	active, pending, completed, failed atomic.Int64
}

// NewPool creates a pool; call Start before submitting
func NewPool(cfg *Config, log ...*logger.Logger) *Pool {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := logger.StdLogger()
	if len(log) > 0 && log[0] != nil {
		l = log[0]
	}
	return &Pool{
		size:    cfg.MaxWorkers,
		timeout: cfg.TaskTimeout,
		log:     l,
		queue:   make(chan Job, cfg.QueueSize),
	}
}

func (p *Pool) Start() {
	p.wg.Add(p.size)
	for range p.size {
		go func() {
			defer p.wg.Done()
			for job := range p.queue {
				p.run(job)
			}
		}()
	}
}

// Stop refuses new jobs and waits until the queue drains or ctx ends.
// Calling it again is a no-op.
func (p *Pool) Stop(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		p.log.Warn(ctx, "Worker pool stopped before draining", "pending", p.pending.Load())
	}
}

// Submit queues job without blocking
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- job:
		p.pending.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) run(job Job) {
	p.pending.Add(-1)
	p.active.Add(1)
	defer p.active.Add(-1)

	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := safeRun(ctx, job); err != nil {
		p.failed.Add(1)
		p.log.Error(ctx, "Background job failed", "job", job.Name, "error", err)
		return
	}
	p.completed.Add(1)
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Run(ctx)
}

// Stats returns the current counters
func (p *Pool) Stats() Stats {
	return Stats{
		Active:    p.active.Load(),
		Pending:   p.pending.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}
