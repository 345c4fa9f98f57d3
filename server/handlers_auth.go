package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-classroom/authclient"
	"github.com/jrsteele09/go-classroom/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	msgSignInFallback  = "Failed to sign in. Please try again."
	msgSignUpFallback  = "Failed to sign up. Please try again."
	msgAccountCreated  = "Account created. Please sign in."
	msgMissingFields   = "Please fill in all required fields"
	msgSignOutRejected = "Sign out failed"
)

// AuthPageData is the template model for the sign-in and sign-up pages
type AuthPageData struct {
	AppName string
	Error   string
	Notice  string
	Name    string
	Email   string // Preserve email on error

	WatchSession    bool // always false, read by the layout
	WatchIntervalMs int64
}

// SignInPageHandler renders the sign-in page (GET /)
func (s *Server) SignInPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("signin.html")
	if err != nil {
		panic("Failed to parse sign in template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := AuthPageData{
			AppName: s.config.GetAppName(),
			Error:   q.Get("error"),
			Notice:  q.Get("notice"),
			Email:   q.Get("email"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render sign in template")
		}
	}
}

// SignInSubmissionHandler signs in with the remote service and stores the
// session in the browser. Success lands on class selection.
func (s *Server) SignInSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if email == "" || password == "" {
			redirectWithError(w, r, RouteSignIn, msgMissingFields, url.Values{"email": {email}})
			return
		}

		if _, err := s.authService(w, r).SignIn(r.Context(), email, password); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Sign in failed")
			redirectWithError(w, r, RouteSignIn, userMessage(err, msgSignInFallback), url.Values{"email": {email}})
			return
		}

		redirectSuccess(w, r, RouteClasses)
	}
}

// SignUpPageHandler renders the registration page
func (s *Server) SignUpPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("signup.html")
	if err != nil {
		panic("Failed to parse sign up template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := AuthPageData{
			AppName: s.config.GetAppName(),
			Error:   q.Get("error"),
			Name:    q.Get("name"),
			Email:   q.Get("email"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render sign up template")
		}
	}
}

// SignUpSubmissionHandler registers an account. When the service signs the
// new user straight in the browser goes to class selection, otherwise back
// to sign-in.
func (s *Server) SignUpSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		keep := url.Values{"name": {name}, "email": {email}}
		if name == "" || email == "" || password == "" {
			redirectWithError(w, r, RouteSignUp, msgMissingFields, keep)
			return
		}

		resp, err := s.authService(w, r).SignUp(r.Context(), name, email, password)
		if err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Sign up failed")
			redirectWithError(w, r, RouteSignUp, userMessage(err, msgSignUpFallback), keep)
			return
		}

		if resp.Data.Session.HasCredentials() {
			redirectSuccess(w, r, RouteClasses)
			return
		}
		redirectSuccess(w, r, RouteSignIn+"?"+url.Values{"notice": {msgAccountCreated}, "email": {email}}.Encode())
	}
}

// SignOutHandler signs out remotely and always clears the browser's
// session. A remote failure is shown on the sign-in page.
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.authService(w, r).SignOut(r.Context()); err != nil {
			redirectWithError(w, r, RouteSignIn, userMessage(err, msgSignOutRejected), nil)
			return
		}
		redirectSuccess(w, r, RouteSignIn)
	}
}

// userMessage is the text shown for err: the service's own message for a
// rejected request, fallback otherwise.
func userMessage(err error, fallback string) string {
	var reqErr *authclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects. keep carries
// form values to refill.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string, keep url.Values) {
	q := url.Values{}
	for k, v := range keep {
		if len(v) > 0 && v[0] != "" {
			q[k] = v
		}
	}
	q.Set("error", errorMsg)
	redirectSuccess(w, r, path+"?"+q.Encode())
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
