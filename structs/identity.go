package structs

import (
	"strings"
	"time"

	"github.com/ncobase/accountdesk/consts"
)

// Role is an identity's access level
type Role string

const (
	RoleAdmin Role = consts.RoleAdmin
	RoleUser  Role = consts.RoleUser
)

// NormalizeRole maps anything other than admin to user.
func NormalizeRole(r string) Role {
	if strings.EqualFold(strings.TrimSpace(r), consts.RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the authenticated user's role-bearing profile record
type Identity struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Username        string    `json:"username,omitempty"`
	Mobile          string    `json:"mobile,omitempty"`
	Role            Role      `json:"role"`
	IsActive        bool      `json:"isActive"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	DateOfBirth     string    `json:"dateOfBirth,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	Address         string    `json:"address,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the identity holds the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// HasRole reports whether the identity holds role. Admins hold every role.
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}
	return i.Role == role || i.Role == RoleAdmin
}

// Clone returns a copy safe to hand to subscribers
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// CredentialBundle holds the tokens issued on authentication
type CredentialBundle struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthResponse is returned by login, register and refresh
type AuthResponse struct {
	User         *Identity `json:"user"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int64     `json:"expiresIn"`
}

// Credentials returns the token half of the response
func (r *AuthResponse) Credentials() CredentialBundle {
	return CredentialBundle{AccessToken: r.Token, RefreshToken: r.RefreshToken, ExpiresIn: r.ExpiresIn}
}

// MessageResponse is a bare acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
