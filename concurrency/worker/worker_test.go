package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(&Config{MaxWorkers: 2, QueueSize: 10, TaskTimeout: time.Second})
	p.Start()

	var n atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(Job{Name: "count", Run: func(context.Context) error {
			n.Add(1)
			return nil
		}}))
	}
	require.NoError(t, p.Submit(Job{Name: "fail", Run: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, p.Submit(Job{Name: "panic", Run: func(context.Context) error { panic("boom") }}))

	p.Stop(context.Background())
	assert.Equal(t, int32(5), n.Load())
	st := p.Stats()
	assert.Equal(t, int64(5), st.Completed)
	assert.Equal(t, int64(2), st.Failed)
	assert.True(t, st.Idle())
}

func TestSubmitAfterStop(t *testing.T) {
	p := NewPool(nil)
	p.Start()
	p.Stop(context.Background())
	p.Stop(context.Background())
	assert.ErrorIs(t, p.Submit(Job{Run: func(context.Context) error { return nil }}), ErrStopped)
}

func TestQueueFull(t *testing.T) {
	p := NewPool(&Config{MaxWorkers: 1, QueueSize: 1})
	noop := Job{Run: func(context.Context) error { return nil }}
	require.NoError(t, p.Submit(noop))
	assert.ErrorIs(t, p.Submit(noop), ErrQueueFull)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxWorkers: 0, QueueSize: 1}).Validate())
	assert.Error(t, (&Config{MaxWorkers: 1, QueueSize: 0}).Validate())
	assert.Error(t, (&Config{MaxWorkers: 1, QueueSize: 1, DrainTimeout: -time.Second}).Validate())
}

func TestProvidePoolDrainsOnCleanup(t *testing.T) {
	_, _, err := ProvidePool(&Config{}, nil)
	assert.Error(t, err)

	pool, cleanup, err := ProvidePool(nil, nil)
	require.NoError(t, err)
	var ran atomic.Bool
	require.NoError(t, pool.Submit(Job{Name: "slow", Run: func(context.Context) error {
		time.Sleep(20 * time.Millisecond)
		ran.Store(true)
		return nil
	}}))
	cleanup()
	assert.True(t, ran.Load())
	assert.ErrorIs(t, pool.Submit(Job{Run: func(context.Context) error { return nil }}), ErrStopped)
}
