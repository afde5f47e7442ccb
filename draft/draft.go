// Package draft persists unsubmitted form values with a save timestamp and
// discards them once they are older than the configured TTL.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/storage/kv"
	"github.com/ncobase/accountdesk/types"
)

// Cache stores drafts under their key and the save time under key + "_timestamp".
type Cache struct {
	store kv.Store
	clock schedule.Clock
	ttl   time.Duration
	log   *logger.Logger

	// serializes read-merge-write on Save
	mu sync.Mutex
}

// Option configures a Cache
type Option func(*Cache)

// WithClock sets the time source
func WithClock(c schedule.Clock) Option { return func(d *Cache) { d.clock = c } }

// WithTTL sets the maximum draft age
func WithTTL(ttl time.Duration) Option {
	return func(d *Cache) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(d *Cache) { d.log = l } }

// New creates a draft cache on store
func New(store kv.Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		clock: schedule.Real(),
		ttl:   consts.DefaultDraftTTL,
		log:   logger.StdLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TimestampKey names the companion key holding a draft's save time
func TimestampKey(key string) string {
	return key + consts.TimestampSuffix
}

// TTL returns the maximum draft age
func (c *Cache) TTL() time.Duration { return c.ttl }

// Save merges values into the draft under key and stamps the current time.
// An expired draft is discarded rather than merged into.
func (c *Cache) Save(ctx context.Context, key string, values types.JSON) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged, err := c.loadLocked(ctx, key)
	if err != nil {
		return err
	}
	if merged == nil {
		merged = make(types.JSON, len(values))
	}
	for k, v := range values {
		merged[k] = v
	}

	if err := kv.SetJSON(ctx, c.store, key, merged); err != nil {
		return fmt.Errorf("draft: save %s: %w", key, err)
	}
	now := c.clock.Now().UTC().Format(time.RFC3339Nano)
	if err := c.store.Set(ctx, TimestampKey(key), now); err != nil {
		return fmt.Errorf("draft: stamp %s: %w", key, err)
	}
	c.log.Debug(ctx, "Draft saved", "key", key, "fields", len(merged))
	return nil
}

// SaveStruct saves the JSON fields of v
func (c *Cache) SaveStruct(ctx context.Context, key string, v any) error {
	values, err := types.ToObject(v)
	if err != nil {
		return fmt.Errorf("draft: encode %s: %w", key, err)
	}
	return c.Save(ctx, key, values)
}

// Load returns the draft under key, or nil when there is none or it expired.
// Expired drafts are evicted.
func (c *Cache) Load(ctx context.Context, key string) (types.JSON, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx, key)
}

// LoadInto decodes the draft into dst. It reports whether a live draft existed.
func (c *Cache) LoadInto(ctx context.Context, key string, dst any) (bool, error) {
	values, err := c.Load(ctx, key)
	if err != nil || values == nil {
		return false, err
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("draft: decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) loadLocked(ctx context.Context, key string) (types.JSON, error) {
	savedAt, ok, err := c.savedAt(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || c.clock.Now().Sub(savedAt) > c.ttl {
		if err := c.evict(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var values types.JSON
	err = kv.GetJSON(ctx, c.store, key, &values)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, c.evict(ctx, key)
	}
	if err != nil {
		c.log.Warn(ctx, "Discarding unreadable draft", "key", key, "error", err)
		return nil, c.evict(ctx, key)
	}
	return values, nil
}

// savedAt reads the timestamp. A missing or malformed timestamp reports ok=false.
func (c *Cache) savedAt(ctx context.Context, key string) (time.Time, bool, error) {
	raw, err := c.store.Get(ctx, TimestampKey(key))
	if errors.Is(err, kv.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("draft: read timestamp %s: %w", key, err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (c *Cache) evict(ctx context.Context, key string) error {
	if err := c.store.Remove(ctx, key, TimestampKey(key)); err != nil {
		return fmt.Errorf("draft: evict %s: %w", key, err)
	}
	return nil
}

// SavedAt returns the save time of a live draft
func (c *Cache) SavedAt(ctx context.Context, key string) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok, err := c.savedAt(ctx, key)
	if err != nil || !ok || c.clock.Now().Sub(t) > c.ttl {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// HasRecent reports whether a live draft exists under key
func (c *Cache) HasRecent(ctx context.Context, key string) (bool, error) {
	_, ok, err := c.SavedAt(ctx, key)
	return ok, err
}

// Clear removes the draft and its timestamp
func (c *Cache) Clear(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evict(ctx, key)
}
