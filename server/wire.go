//go:build wireinject

package server

import (
	"github.com/google/wire"
	"github.com/ncobase/accountdesk/config"
)

// Initialize wires the mock backend from configuration.
func Initialize(cfg *config.Config) (*Server, func(), error) {
	panic(wire.Build(ProviderSet))
}
