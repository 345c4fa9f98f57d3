// Package guard gates navigation to protected views on a valid session.
package guard

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-classroom/session"
	"github.com/rs/zerolog/log"
)

// View names a navigable screen of the application
type View string

const (
	ViewSignIn       View = "sign-in"
	ViewSignUp       View = "sign-up"
	ViewClassSelect  View = "class-select"
	ViewDashboard    View = "dashboard"
	ViewPresentation View = "presentation"
)

// Paths maps each view to the route it is served on
var Paths = map[View]string{
	ViewSignIn:       "/",
	ViewSignUp:       "/signup",
	ViewClassSelect:  "/classes",
	ViewDashboard:    "/dashboard",
	ViewPresentation: "/presentation",
}

// Path returns the route for v, or the sign-in route for unknown views
func (v View) Path() string {
	if p, ok := Paths[v]; ok {
		return p
	}
	return Paths[ViewSignIn]
}

// DefaultProtected are the views that require a signed-in user
var DefaultProtected = []View{ViewDashboard, ViewPresentation}

// ValidatorFunc resolves the session validator for an HTTP request. The web
// front-end keeps its session in per-request storage (cookies), so the
// validator cannot be fixed up front.
type ValidatorFunc func(w http.ResponseWriter, r *http.Request) session.Validator

// Guard decides access to protected views. It does not remember where a
// denied user was going: denial always lands on sign-in.
type Guard struct {
	protected map[View]struct{}
	fallback  View
}

// New creates a guard for the given protected views (DefaultProtected when
// none are given).
func New(protected ...View) *Guard {
	if len(protected) == 0 {
		protected = DefaultProtected
	}
	g := &Guard{
		protected: make(map[View]struct{}, len(protected)),
		fallback:  ViewSignIn,
	}
	for _, v := range protected {
		g.protected[v] = struct{}{}
	}
	return g
}

// IsProtected reports whether v needs a valid session
func (g *Guard) IsProtected(v View) bool {
	_, ok := g.protected[v]
	return ok
}

// Allow returns the view to show for a request to v and whether v itself
// was allowed. The validator is consulted on every call.
func (g *Guard) Allow(ctx context.Context, v View, validator session.Validator) (View, bool) {
	if !g.IsProtected(v) {
		return v, true
	}
	if validator != nil && validator.IsValid(ctx) {
		return v, true
	}
	return g.fallback, false
}

// Protect wraps next so it only runs when the request's session is valid.
// Denied requests are redirected to the sign-in view.
func (g *Guard) Protect(v View, validatorFor ValidatorFunc, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := g.Allow(r.Context(), v, validatorFor(w, r))
		if ok {
			next(w, r)
			return
		}

		log.Debug().Str("view", string(v)).Str("path", r.URL.Path).Msg("guard: no valid session, redirecting to sign-in")
		Redirect(w, r, target.Path())
	}
}

// Redirect sends the client to path, using HX-Redirect for HTMX requests so
// the whole page navigates rather than a fragment swap.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
