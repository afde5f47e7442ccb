package draft

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/storage/kv"
	"github.com/ncobase/accountdesk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func newCache(t *testing.T) (*Cache, *kv.Memory, *schedule.FakeClock) {
	t.Helper()
	store := kv.NewMemory()
	clock := schedule.NewFakeClock(epoch)
	return New(store, WithClock(clock)), store, clock
}

func TestLoadWithinTTL(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newCache(t)

	values := types.JSON{"fullName": "Jane Smith", "mobile": "5551234567"}
	require.NoError(t, c.Save(ctx, "profile_draft", values))

	clock.Advance(time.Hour)
	got, err := c.Load(ctx, "profile_draft")
	require.NoError(t, err)
	assert.Equal(t, values, got)

	savedAt, ok, err := c.SavedAt(ctx, "profile_draft")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, epoch, savedAt)
}

func TestLoadAfterTTLEvicts(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newCache(t)

	require.NoError(t, c.Save(ctx, "profile_draft", types.JSON{"fullName": "Jane"}))
	clock.Advance(25 * time.Hour)

	got, err := c.Load(ctx, "profile_draft")
	require.NoError(t, err)
	assert.Nil(t, got)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSaveMerges(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newCache(t)

	require.NoError(t, c.Save(ctx, "registration_data", types.JSON{"fullName": "A", "email": "a@x.io"}))
	clock.Advance(time.Minute)
	require.NoError(t, c.Save(ctx, "registration_data", types.JSON{"email": "b@x.io", "mobile": "123"}))

	got, err := c.Load(ctx, "registration_data")
	require.NoError(t, err)
	assert.Equal(t, types.JSON{"fullName": "A", "email": "b@x.io", "mobile": "123"}, got)

	stamp, err := store.Get(ctx, "registration_data_timestamp")
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Minute).Format(time.RFC3339Nano), stamp)
}

func TestSaveDoesNotMergeIntoExpired(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newCache(t)

	require.NoError(t, c.Save(ctx, "login_data", types.JSON{"email": "old@x.io", "rememberMe": true}))
	clock.Advance(48 * time.Hour)
	require.NoError(t, c.Save(ctx, "login_data", types.JSON{"email": "new@x.io"}))

	got, err := c.Load(ctx, "login_data")
	require.NoError(t, err)
	assert.Equal(t, types.JSON{"email": "new@x.io"}, got)
}

func TestMissingOrBadTimestampIsExpired(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newCache(t)

	require.NoError(t, store.Set(ctx, "profile_draft", `{"fullName":"x"}`))
	got, err := c.Load(ctx, "profile_draft")
	require.NoError(t, err)
	assert.Nil(t, got)
	_, err = store.Get(ctx, "profile_draft")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, store.Set(ctx, "profile_draft", `{"fullName":"x"}`))
	require.NoError(t, store.Set(ctx, "profile_draft_timestamp", "yesterday"))
	ok, err := c.HasRecent(ctx, "profile_draft")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearAndLoadInto(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newCache(t)

	type form struct {
		Email string `json:"email"`
	}
	require.NoError(t, c.SaveStruct(ctx, "forgot_password_data", form{Email: "a@b.c"}))

	var f form
	ok, err := c.LoadInto(ctx, "forgot_password_data", &f)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", f.Email)

	require.NoError(t, c.Clear(ctx, "forgot_password_data"))
	ok, err = c.LoadInto(ctx, "forgot_password_data", &f)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAutosaverDebounces(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newCache(t)
	sched := schedule.NewScheduler(clock)

	var saves []types.JSON
	a := NewAutosaver(c, sched, "profile_draft",
		WithValidator(func(v types.JSON) bool { return v["fullName"] != "" }),
		OnSaved(func(v types.JSON) { saves = append(saves, v) }),
	)
	a.MarkBaseline(types.JSON{"fullName": "Jane"})

	a.Change(types.JSON{"fullName": "Jan"})
	clock.Advance(2 * time.Second)
	a.Change(types.JSON{"fullName": "Janet"})
	clock.Advance(2 * time.Second)
	assert.Empty(t, saves)

	clock.Advance(time.Second)
	require.Len(t, saves, 1)
	assert.Equal(t, "Janet", saves[0]["fullName"])

	// Same values again are not re-saved.
	a.Change(types.JSON{"fullName": "Janet"})
	clock.Advance(3 * time.Second)
	assert.Len(t, saves, 1)

	// Back to the baseline is not a change.
	a.Change(types.JSON{"fullName": "Jane"})
	clock.Advance(3 * time.Second)
	assert.Len(t, saves, 1)

	// Invalid forms are skipped.
	a.Change(types.JSON{"fullName": ""})
	clock.Advance(3 * time.Second)
	assert.Len(t, saves, 1)

	got, err := c.Load(ctx, "profile_draft")
	require.NoError(t, err)
	assert.Equal(t, "Janet", got["fullName"])
}

func TestAutosaverFlushAndStop(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newCache(t)
	sched := schedule.NewScheduler(clock)
	a := NewAutosaver(c, sched, "profile_draft", WithDelay(time.Second))

	a.Change(types.JSON{"address": "1 Main St"})
	saved, err := a.Flush(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Empty(t, sched.Pending())

	a.Change(types.JSON{"address": "2 Main St"})
	a.Stop()
	clock.Advance(time.Minute)

	got, err := c.Load(ctx, "profile_draft")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got["address"])
}
