package server

import "github.com/jrsteele09/go-classroom/guard"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
var (
	// Views
	RouteSignIn       = guard.ViewSignIn.Path()
	RouteSignUp       = guard.ViewSignUp.Path()
	RouteClasses      = guard.ViewClassSelect.Path()
	RouteDashboard    = guard.ViewDashboard.Path()
	RoutePresentation = guard.ViewPresentation.Path()
)

const (
	// Form submissions
	RouteSignInSubmit = "/signin"
	RouteSignOut      = "/signout"

	// Dashboard quick actions
	RouteDashboardItems = "/dashboard/items"

	// API Routes
	RouteAPISession = "/api/session"
	RouteHealth     = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
