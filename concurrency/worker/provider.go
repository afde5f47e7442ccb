package worker

import (
	"context"

	"github.com/google/wire"
	"github.com/ncobase/accountdesk/logging/logger"
)

var ProviderSet = wire.NewSet(ProvidePool)

// ProvidePool starts a pool sized by cfg. Its cleanup waits up to
// DrainTimeout for queued jobs.
func ProvidePool(cfg *Config, log *logger.Logger) (*Pool, func(), error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	pool := NewPool(cfg, log)
	pool.Start()
	return pool, func() {
		ctx := context.Background()
		if cfg.DrainTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.DrainTimeout)
			defer cancel()
		}
		pool.Stop(ctx)
	}, nil
}
