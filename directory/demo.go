package directory

import (
	"strings"
	"time"

	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/structs"
)

// DemoAccount is an entry of the fixed offline credential table
type DemoAccount struct {
	Identity structs.Identity
	Password string
}

// DemoAccounts returns the fixed credential table used when the backend is
// unreachable. It is also the seed data of the mock backend.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{
			Identity: structs.Identity{
				ID: "1", FullName: "Admin User", Email: "admin@example.com", Username: "admin",
				Mobile: "+1234567890", Role: structs.RoleAdmin, IsActive: true, IsEmailVerified: true,
			},
			Password: "admin123",
		},
		{
			Identity: structs.Identity{
				ID: "2", FullName: "John Doe", Email: "user@example.com", Username: "johndoe",
				Mobile: "+0987654321", Role: structs.RoleUser, IsActive: true, IsEmailVerified: true,
			},
			Password: "user123",
		},
		{
			Identity: structs.Identity{
				ID: "3", FullName: "Jane Smith", Email: "jane@example.com", Username: "janesmith",
				Mobile: "+1122334455", Role: structs.RoleUser, IsActive: true, IsEmailVerified: false,
			},
			Password: "password123",
		},
		{
			Identity: structs.Identity{
				ID: "4", FullName: "Dev User", Email: "dev5588@gmail.com", Username: "dev5588",
				Mobile: "+1234567890", Role: structs.RoleUser, IsActive: true, IsEmailVerified: true,
			},
			Password: "Dev@2006",
		},
	}
}

// MatchHandle reports whether handle names the identity by email or username, ignoring case.
func MatchHandle(i *structs.Identity, handle string) bool {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return false
	}
	return strings.EqualFold(i.Email, handle) || (i.Username != "" && strings.EqualFold(i.Username, handle))
}

// MatchDemo authenticates against table. The returned identity is stamped with now.
func MatchDemo(table []DemoAccount, handle, password string, now time.Time) (*structs.Identity, error) {
	for _, a := range table {
		if !MatchHandle(&a.Identity, handle) || a.Password != password {
			continue
		}
		if !a.Identity.IsActive {
			return nil, ecode.ErrAccountDeactivated
		}
		id := a.Identity
		id.CreatedAt = now
		id.UpdatedAt = now
		return &id, nil
	}
	return nil, ecode.ErrInvalidCredentials
}
