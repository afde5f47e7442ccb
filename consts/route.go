package consts

// Route paths
const (
	RouteHome           = "/home"
	RouteAbout          = "/about"
	RouteContact        = "/contact"
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteForgotPassword = "/forgot-password"
	RouteFAQ            = "/faq"
	RouteHelp           = "/help"
	RouteUserDashboard  = "/user-dashboard"
	RouteAdminDashboard = "/admin-dashboard"
	RouteProfile        = "/profile"
	RouteChangePassword = "/change-password"
)

// ReturnURLParam is the query parameter carrying the originally requested path.
const ReturnURLParam = "returnUrl"
