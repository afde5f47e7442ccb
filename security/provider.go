package security

import (
	"github.com/google/wire"
	"github.com/ncobase/accountdesk/security/jwt"
)

// ProviderSet bundles the token signer for the backend injector. Password
// hashing in security/crypto is stateless and needs no provider.
var ProviderSet = wire.NewSet(jwt.ProviderSet)
