package jwt

import (
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
)

// TokenError represents JWT token related errors
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	DefaultAccessTokenExpire  = time.Hour
	DefaultRefreshTokenExpire = time.Hour * 24 * 7

	SubjectAccess  = "access"
	SubjectRefresh = "refresh"

	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	ErrInvalidToken      = TokenError("invalid token")
	ErrWrongSubject      = TokenError("unexpected token type")
)

// TokenConfig sets token lifetimes. Zero values fall back to the defaults.
type TokenConfig struct {
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// Claims is the body of both token kinds. The pair issued at login shares
// one ID, which names the server-side session.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwtstd.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens
type TokenManager struct {
	key     []byte
	access  time.Duration
	refresh time.Duration
	now     func() time.Time
}

// NewTokenManager creates a new TokenManager instance
func NewTokenManager(key string, cfg ...*TokenConfig) *TokenManager {
	jtm := &TokenManager{
		key:     []byte(key),
		access:  DefaultAccessTokenExpire,
		refresh: DefaultRefreshTokenExpire,
		now:     time.Now,
	}
	if len(cfg) > 0 && cfg[0] != nil {
		if cfg[0].AccessTokenExpiry > 0 {
			jtm.access = cfg[0].AccessTokenExpiry
		}
		if cfg[0].RefreshTokenExpiry > 0 {
			jtm.refresh = cfg[0].RefreshTokenExpiry
		}
	}
	return jtm
}

func (jtm *TokenManager) AccessExpiry() time.Duration  { return jtm.access }
func (jtm *TokenManager) RefreshExpiry() time.Duration { return jtm.refresh }

// GenerateAccessToken signs c as an access token with id jti
func (jtm *TokenManager) GenerateAccessToken(jti string, c Claims) (string, error) {
	return jtm.sign(jti, SubjectAccess, jtm.access, c)
}

// GenerateRefreshToken signs c as a refresh token with id jti
func (jtm *TokenManager) GenerateRefreshToken(jti string, c Claims) (string, error) {
	return jtm.sign(jti, SubjectRefresh, jtm.refresh, c)
}

func (jtm *TokenManager) sign(jti, subject string, ttl time.Duration, c Claims) (string, error) {
	if len(jtm.key) == 0 {
		return "", ErrNeedTokenProvider
	}
	now := jtm.now()
	c.RegisteredClaims = jwtstd.RegisteredClaims{
		ID:        jti,
		Subject:   subject,
		IssuedAt:  jwtstd.NewNumericDate(now),
		ExpiresAt: jwtstd.NewNumericDate(now.Add(ttl)),
	}
	return jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, &c).SignedString(jtm.key)
}

// Decode verifies the signature and expiry of token and returns its claims
func (jtm *TokenManager) Decode(token string) (*Claims, error) {
	if len(jtm.key) == 0 {
		return nil, ErrNeedTokenProvider
	}
	c := &Claims{}
	t, err := jwtstd.ParseWithClaims(token, c, func(*jwtstd.Token) (any, error) {
		return jtm.key, nil
	},
		jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}),
		jwtstd.WithTimeFunc(jtm.now),
		jwtstd.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// DecodeSubject is Decode that also requires the token kind to be subject
func (jtm *TokenManager) DecodeSubject(token, subject string) (*Claims, error) {
	c, err := jtm.Decode(token)
	if err != nil {
		return nil, err
	}
	if c.Subject != subject {
		return nil, ErrWrongSubject
	}
	return c, nil
}

// IsTokenExpired reports whether token is expired. Tokens that fail to
// verify for any other reason count as expired too.
func (jtm *TokenManager) IsTokenExpired(token string) bool {
	_, err := jtm.Decode(token)
	return err != nil
}
