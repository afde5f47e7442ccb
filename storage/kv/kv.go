// Package kv is the persisted key-value medium behind the session store and
// the draft cache. Drivers register themselves by name and are selected with
// the storage.driver setting.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/accountdesk/config"
)

// ErrNotFound is returned by Get for an absent key
var ErrNotFound = errors.New("kv: key not found")

// Store is a string key-value medium
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes keys; absent keys are ignored.
	Remove(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Opener builds a Store from configuration
type Opener func(ctx context.Context, cfg *config.Storage) (Store, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Opener)
)

// Register makes a driver available under name
func Register(name string, opener Opener) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = opener
}

// Drivers lists registered driver names
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the store selected by cfg.Driver
func Open(ctx context.Context, cfg *config.Storage) (Store, error) {
	if cfg == nil {
		return nil, errors.New("kv: storage configuration is nil")
	}
	driversMu.RLock()
	opener, ok := drivers[cfg.Driver]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("kv: unknown driver %q", cfg.Driver)
	}
	return opener(ctx, cfg)
}

// GetJSON decodes the value under key into dst. It returns ErrNotFound when absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}

// SetJSON stores value JSON-encoded under key
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}
