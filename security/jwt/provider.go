package jwt

import (
	"github.com/google/wire"
	"github.com/ncobase/accountdesk/config"
)

// ProviderSet is the wire provider set for the jwt package.
var ProviderSet = wire.NewSet(ProvideTokenManager)

// ProvideTokenManager creates a TokenManager from the auth configuration.
func ProvideTokenManager(cfg *config.Auth) *TokenManager {
	if cfg == nil || cfg.JWT == nil {
		return NewTokenManager("")
	}
	return NewTokenManager(cfg.JWT.Secret, &TokenConfig{
		AccessTokenExpiry:  cfg.JWT.AccessExpire,
		RefreshTokenExpiry: cfg.JWT.RefreshExpire,
	})
}
