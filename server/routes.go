package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-classroom/guard"
)

func (s *Server) initRoutes() {
	// SIGN IN / SIGN UP / SIGN OUT
	s.RegisterRouteHandler("GET "+RouteSignIn+"{$}", ChainMiddleware(s.SignInPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignInSubmit, ChainMiddleware(s.SignInSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSignUp, ChainMiddleware(s.SignUpPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignUp, ChainMiddleware(s.SignUpSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignOut, ChainMiddleware(s.SignOutHandler(), s.HTMLMiddleWare()...))

	s.RegisterRouteHandler("GET "+RouteClasses, ChainMiddleware(s.ClassesHandler(), s.HTMLMiddleWare()...))

	// Protected views
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(s.RequireSession(guard.ViewDashboard))...))
	s.RegisterRouteHandler("POST "+RouteDashboardItems, ChainMiddleware(s.DashboardItemHandler(), s.HTMLMiddleWare(s.RequireSession(guard.ViewDashboard))...))
	s.RegisterRouteHandler("GET "+RoutePresentation, ChainMiddleware(s.PresentationPageHandler(), s.HTMLMiddleWare(s.RequireSession(guard.ViewPresentation))...))
	s.RegisterRouteHandler("POST "+RoutePresentation, ChainMiddleware(s.PresentationSubmissionHandler(), s.HTMLMiddleWare(s.RequireSession(guard.ViewPresentation))...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPISession, ChainMiddleware(s.SessionStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

// RequireSession guards a view: the wrapped handler only runs while the
// browser's session is valid, otherwise the browser is sent to sign-in.
func (s *Server) RequireSession(v guard.View) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return s.guard.Protect(v, s.validatorFor, next)
	}
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
