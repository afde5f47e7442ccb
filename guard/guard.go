// Package guard decides whether an identity may enter a view.
package guard

import (
	"net/url"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/structs"
)

// Kind of access a target requires
type Kind int

const (
	KindPublic Kind = iota
	KindAuthenticated
	KindRole
)

// Requirement is what a target asks of the caller
type Requirement struct {
	Kind Kind
	Role structs.Role
}

var (
	// Public targets are open to everyone
	Public = Requirement{Kind: KindPublic}
	// Authenticated targets need a signed-in identity
	Authenticated = Requirement{Kind: KindAuthenticated}
)

// RoleRequirement requires a signed-in identity holding role
func RoleRequirement(role structs.Role) Requirement {
	return Requirement{Kind: KindRole, Role: role}
}

func (r Requirement) String() string {
	switch r.Kind {
	case KindAuthenticated:
		return "signed in"
	case KindRole:
		return "role " + string(r.Role)
	default:
		return "public"
	}
}

// Outcome of a guard decision
type Outcome int

const (
	Allow Outcome = iota
	RedirectToLogin
	RedirectToUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToUnauthorized:
		return "redirect-to-unauthorized"
	default:
		return "allow"
	}
}

// Decision is a guard outcome plus where to go instead
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Allowed reports whether navigation may proceed
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Decide checks identity against required. target is only used to build
// the login return URL and may be empty.
func Decide(identity *structs.Identity, required Requirement, target ...string) Decision {
	if required.Kind == KindPublic {
		return Decision{Outcome: Allow}
	}
	if identity == nil {
		return Decision{Outcome: RedirectToLogin, Redirect: LoginURL(first(target))}
	}
	if required.Kind == KindRole && !identity.HasRole(required.Role) {
		return Decision{Outcome: RedirectToUnauthorized, Redirect: consts.RouteUserDashboard}
	}
	return Decision{Outcome: Allow}
}

// LoginURL is the login route carrying returnURL
func LoginURL(returnURL string) string {
	if returnURL == "" {
		return consts.RouteLogin
	}
	q := url.Values{}
	q.Set(consts.ReturnURLParam, returnURL)
	return consts.RouteLogin + "?" + q.Encode()
}

// HomeFor is where a freshly signed-in identity lands
func HomeFor(role structs.Role) string {
	if role == structs.RoleAdmin {
		return consts.RouteAdminDashboard
	}
	return consts.RouteUserDashboard
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
