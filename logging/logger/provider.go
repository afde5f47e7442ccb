package logger

import (
	"github.com/google/wire"
	"github.com/ncobase/accountdesk/logging/logger/config"
	"github.com/ncobase/accountdesk/version"
)

var ProviderSet = wire.NewSet(ProvideLogger)

// ProvideLogger configures the shared logger and tags its entries with the
// build version.
func ProvideLogger(cfg *config.Config) (*Logger, func(), error) {
	cleanup, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	l := StdLogger()
	l.SetVersion(version.Version)
	return l, cleanup, nil
}
