package guard

import (
	"sort"
	"strings"

	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/structs"
)

// Route is one navigable view
type Route struct {
	Path     string
	Title    string
	Required Requirement
}

// Routes is the application's view table
var Routes = []Route{
	{Path: consts.RouteHome, Title: "Home", Required: Public},
	{Path: consts.RouteAbout, Title: "About Us", Required: Public},
	{Path: consts.RouteContact, Title: "Contact Us", Required: Public},
	{Path: consts.RouteLogin, Title: "Login", Required: Public},
	{Path: consts.RouteRegister, Title: "Register", Required: Public},
	{Path: consts.RouteForgotPassword, Title: "Forgot Password", Required: Public},
	{Path: consts.RouteFAQ, Title: "FAQ", Required: Public},
	{Path: consts.RouteHelp, Title: "Help Center", Required: Public},
	{Path: consts.RouteUserDashboard, Title: "User Dashboard", Required: Authenticated},
	{Path: consts.RouteAdminDashboard, Title: "Admin Dashboard", Required: RoleRequirement(structs.RoleAdmin)},
	{Path: consts.RouteProfile, Title: "Profile", Required: Authenticated},
	{Path: consts.RouteChangePassword, Title: "Change Password", Required: Authenticated},
}

var aliases = map[string]string{
	"/auth/login":           consts.RouteLogin,
	"/auth/register":        consts.RouteRegister,
	"/auth/forgot-password": consts.RouteForgotPassword,
}

// IdentitySource yields the current identity synchronously
type IdentitySource interface {
	CurrentIdentity() *structs.Identity
}

// Result of a navigation attempt
type Result struct {
	// Requested is the normalized path that was asked for
	Requested string
	// Path is where navigation ended up
	Path     string
	Route    Route
	Decision Decision
}

// Router resolves paths against the route table and applies the guard
type Router struct {
	source IdentitySource
	routes map[string]Route
}

// NewRouter creates a router reading identities from source
func NewRouter(source IdentitySource) *Router {
	r := &Router{source: source, routes: make(map[string]Route, len(Routes))}
	for _, route := range Routes {
		r.routes[route.Path] = route
	}
	return r
}

// Resolve maps path to a route. Aliases resolve to their target; empty
// and unknown paths fall back to home.
func (r *Router) Resolve(path string) Route {
	path = normalize(path)
	if target, ok := aliases[path]; ok {
		path = target
	}
	if route, ok := r.routes[path]; ok {
		return route
	}
	return r.routes[consts.RouteHome]
}

// Navigate decides whether the current identity may open path
func (r *Router) Navigate(path string) Result {
	requested := normalize(path)
	route := r.Resolve(requested)
	d := Decide(r.source.CurrentIdentity(), route.Required, route.Path)
	res := Result{Requested: requested, Route: route, Decision: d, Path: route.Path}
	if !d.Allowed() {
		res.Path = d.Redirect
	}
	return res
}

// Paths lists every known route path, sorted
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.ToLower(path)
}
