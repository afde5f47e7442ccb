package server

import (
	"context"

	"github.com/google/wire"
	"github.com/ncobase/accountdesk/concurrency/worker"
	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/directory"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/messaging/email"
	"github.com/ncobase/accountdesk/security"
	"github.com/ncobase/accountdesk/storage/kv"
)

// ProviderSet is the wire provider set for the mock backend.
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	logger.ProviderSet,
	security.ProviderSet,
	email.ProviderSet,
	worker.ProviderSet,
	ProvideWorkerConfig,
	ProvideDirectory,
	ProvideSessions,
	New,
)

// ProvideWorkerConfig sizes the mail delivery pool
func ProvideWorkerConfig() *worker.Config {
	return worker.DefaultConfig()
}

// ProvideDirectory returns a directory seeded with the demo accounts
func ProvideDirectory(log *logger.Logger) (*directory.Directory, error) {
	dir := directory.New(directory.WithLogger(log))
	if err := dir.Seed(context.Background(), directory.DemoAccounts()); err != nil {
		return nil, err
	}
	return dir, nil
}

// ProvideSessions returns the live session registry. It is in memory so the
// backend never contends with a desk for the configured storage file.
func ProvideSessions() (kv.Store, func()) {
	store := kv.NewMemory()
	return store, func() { _ = store.Close() }
}
