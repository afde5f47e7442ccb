package consts

import "time"

// Session and draft defaults
const (
	DefaultSessionTimeout = 60 * time.Minute
	DefaultWarningLead    = 5 * time.Minute
	DefaultDraftTTL       = 24 * time.Hour
	DefaultAutosaveDelay  = 3 * time.Second
	DemoTokenExpiresIn    = 3600
)

// Prefixes of tokens issued by the offline demo fallback
const (
	DemoTokenPrefix        = "mock-jwt-token-"
	DemoRefreshTokenPrefix = "mock-refresh-token-"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
