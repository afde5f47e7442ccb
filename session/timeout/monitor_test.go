package timeout

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/storage/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	clock    *schedule.FakeClock
	sched    *schedule.Scheduler
	store    kv.Store
	monitor  *Monitor
	warnings int
	expiries int
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{clock: schedule.NewFakeClock(epoch), store: kv.NewMemory()}
	h.sched = schedule.NewScheduler(h.clock)
	opts = append([]Option{
		WithStore(h.store),
		OnWarning(func(context.Context) { h.warnings++ }),
		OnExpire(func(context.Context) { h.expiries++ }),
	}, opts...)
	h.monitor = New(h.sched, opts...)
	t.Cleanup(h.sched.Stop)
	return h
}

func TestWarningThenExpiry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Arm(ctx, "1")
	assert.Equal(t, Armed, h.monitor.State())
	assert.Equal(t, 60*time.Minute, h.monitor.Remaining())

	h.clock.Advance(55*time.Minute - time.Second)
	assert.Zero(t, h.warnings)

	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.warnings)
	assert.Equal(t, WarningIssued, h.monitor.State())
	assert.Equal(t, 5*time.Minute, h.monitor.Remaining())

	h.clock.Advance(5*time.Minute - time.Second)
	assert.Zero(t, h.expiries)

	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.expiries)
	assert.Equal(t, Expired, h.monitor.State())
	assert.Zero(t, h.monitor.Remaining())

	h.clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, h.warnings)
	assert.Equal(t, 1, h.expiries)
}

func TestActivityShiftsDeadlines(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Arm(ctx, "1")

	h.clock.Advance(30 * time.Minute)
	h.monitor.Activity(ctx)
	assert.Equal(t, epoch.Add(90*time.Minute), h.monitor.Deadline())

	h.clock.Advance(25 * time.Minute)
	assert.Zero(t, h.warnings, "old warning must not fire at 55m")

	h.clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, h.warnings)
	assert.Zero(t, h.expiries)

	h.clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, h.expiries)
}

func TestActivityAfterWarningRearms(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Arm(ctx, "1")
	h.clock.Advance(56 * time.Minute)
	require.Equal(t, WarningIssued, h.monitor.State())

	h.monitor.Activity(ctx)
	assert.Equal(t, Armed, h.monitor.State())
	h.clock.Advance(10 * time.Minute)
	assert.Zero(t, h.expiries)
}

func TestActivityIgnoredWhenIdle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Activity(ctx)
	assert.Equal(t, Idle, h.monitor.State())
	assert.Empty(t, h.sched.Pending())

}

func TestActivityAfterExpiryRearms(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Arm(ctx, "1")
	h.clock.Advance(61 * time.Minute)
	require.Equal(t, Expired, h.monitor.State())
	require.Equal(t, 1, h.expiries)

	h.monitor.Activity(ctx)
	assert.Equal(t, Armed, h.monitor.State())
	assert.Equal(t, "1", h.monitor.Session())
	assert.Equal(t, h.clock.Now().Add(60*time.Minute), h.monitor.Deadline())

	h.clock.Advance(55 * time.Minute)
	assert.Equal(t, 2, h.warnings)
	h.clock.Advance(5 * time.Minute)
	assert.Equal(t, 2, h.expiries)
}

func TestDisarm(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Arm(ctx, "1")
	_, err := h.store.Get(ctx, consts.SessionTimeoutKey)
	require.NoError(t, err)

	h.monitor.Disarm(ctx)
	assert.Equal(t, Idle, h.monitor.State())
	assert.Empty(t, h.sched.Pending())
	assert.True(t, h.monitor.Deadline().IsZero())

	_, err = h.store.Get(ctx, consts.SessionTimeoutKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
	_, err = h.store.Get(ctx, consts.WarningTimeoutKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	h.clock.Advance(2 * time.Hour)
	assert.Zero(t, h.warnings)
	assert.Zero(t, h.expiries)
}

func TestArmReplacesPreviousSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Arm(ctx, "1")
	h.clock.Advance(10 * time.Minute)
	h.monitor.Arm(ctx, "2")

	assert.Equal(t, []string{"session:2:expire", "session:2:warn"}, h.sched.Pending())
	assert.Equal(t, "2", h.monitor.Session())

	h.clock.Advance(60 * time.Minute)
	assert.Equal(t, 1, h.expiries)
}

func TestPersistedDeadlines(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.monitor.Arm(ctx, "1")

	raw, err := h.store.Get(ctx, consts.SessionTimeoutKey)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Hour).Format(time.RFC3339), raw)

	raw, err = h.store.Get(ctx, consts.WarningTimeoutKey)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(55*time.Minute).Format(time.RFC3339), raw)
}

func TestExpireCallbackMayDisarm(t *testing.T) {
	var m *Monitor
	expiries := 0
	clock := schedule.NewFakeClock(epoch)
	sched := schedule.NewScheduler(clock)
	m = New(sched, OnExpire(func(ctx context.Context) {
		expiries++
		m.Disarm(ctx)
	}))
	m.Arm(context.Background(), "1")

	clock.Advance(time.Hour)
	assert.Equal(t, 1, expiries)
	assert.Equal(t, Idle, m.State())
}

func TestCustomDurations(t *testing.T) {
	h := newHarness(t, WithTimeout(10*time.Minute), WithWarningLead(2*time.Minute))
	h.monitor.Arm(context.Background(), "1")

	h.clock.Advance(8 * time.Minute)
	assert.Equal(t, 1, h.warnings)
	h.clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, h.expiries)
}

func TestLeadNotShorterThanTimeoutSkipsWarning(t *testing.T) {
	h := newHarness(t, WithTimeout(time.Minute), WithWarningLead(time.Minute))
	h.monitor.Arm(context.Background(), "1")
	assert.Equal(t, []string{"session:1:expire"}, h.sched.Pending())

	h.clock.Advance(time.Minute)
	assert.Zero(t, h.warnings)
	assert.Equal(t, 1, h.expiries)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "armed", Armed.String())
	assert.Equal(t, "warning", WarningIssued.String())
	assert.Equal(t, "expired", Expired.String())
}
