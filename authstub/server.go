// Package authstub is an in-memory stand-in for the remote authentication
// and presentation services, used for local development and integration
// tests. It answers with the same envelopes and status codes as the real
// service.
package authstub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	RouteSignIn      = "/auth/signin"
	RouteSignUp      = "/auth/signup"
	RouteSignOut     = "/auth/signout"
	RouteGeneratePPT = "/ppt/generate-ppt"

	minPasswordLength = 6
)

// AuthResponse is the envelope of every auth endpoint
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Config struct {
	Secret        []byte
	TokenTTL      time.Duration
	PublicURLBase string // prefix for generated deck URLs
}

type Server struct {
	mux    *http.ServeMux
	users  *userRepo
	tokens *tokenIssuer
	config Config
}

func New(config Config) *Server {
	if config.TokenTTL <= 0 {
		config.TokenTTL = time.Hour
	}
	if config.PublicURLBase == "" {
		config.PublicURLBase = "http://localhost:8000/storage/generated-ppt"
	}
	s := &Server{
		mux:    http.NewServeMux(),
		users:  newUserRepo(),
		tokens: newTokenIssuer(config.Secret, config.TokenTTL),
		config: config,
	}
	s.mux.HandleFunc("POST "+RouteSignUp, s.SignUpHandler())
	s.mux.HandleFunc("POST "+RouteSignIn, s.SignInHandler())
	s.mux.HandleFunc("POST "+RouteSignOut, s.SignOutHandler())
	s.mux.HandleFunc("POST "+RouteGeneratePPT, s.GeneratePPTHandler())
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// AddUser registers an account directly, for seeding
func (s *Server) AddUser(name, email, password string) error {
	_, err := s.users.Create(name, email, password)
	return err
}

func (s *Server) SignUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, AuthResponse{Message: "Sign up failed.", Error: "invalid request body"})
			return
		}
		if msg := validateCredentials(req.Email, req.Password); msg != "" {
			writeJSON(w, http.StatusBadRequest, AuthResponse{Message: "Sign up failed.", Error: msg})
			return
		}

		user, err := s.users.Create(strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password)
		if errors.Is(err, errUserExists) {
			writeJSON(w, http.StatusConflict, AuthResponse{Message: "Sign up failed.", Error: err.Error()})
			return
		}
		if err != nil {
			log.Err(err).Msg("authstub: failed to create user")
			writeJSON(w, http.StatusBadRequest, AuthResponse{Message: "An unexpected error occurred during sign up."})
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{
			Success: true,
			Message: "User signed up successfully.",
			Data:    map[string]string{"user_id": user.ID, "email": user.Email},
		})
	}
}

func (s *Server) SignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Message: "Sign in failed.", Error: "invalid request body"})
			return
		}

		user, err := s.users.GetByEmail(strings.TrimSpace(req.Email))
		if err != nil || !CheckPasswordHash(req.Password, user.PasswordHash) {
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Message: "Sign in failed.", Error: "Invalid login credentials"})
			return
		}

		issued, err := s.tokens.Issue(user)
		if err != nil {
			log.Err(err).Msg("authstub: failed to issue session")
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Message: "An unexpected error occurred during sign in."})
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{
			Success: true,
			Message: "User signed in successfully.",
			Data: map[string]any{
				"session": issued,
				"user_id": user.ID,
				"email":   user.Email,
			},
		})
	}
}

// SignOutHandler revokes the bearer token when one is sent. Without one
// there is nothing to revoke and sign-out still succeeds, matching the real
// service where the client is expected to discard its token.
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw, ok := bearerToken(r); ok {
			claims, err := s.tokens.Verify(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, AuthResponse{Message: "Sign out failed: " + err.Error(), Error: err.Error()})
				return
			}
			s.tokens.Revoke(claims)
		}
		writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "User signed out successfully. Client should discard JWT."})
	}
}

// GeneratePPTHandler pretends to build and upload a deck, returning where it
// would be downloaded from.
func (s *Server) GeneratePPTHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		if _, err := s.tokens.Verify(raw); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}

		var req struct {
			Grade    int    `json:"grade"`
			Subject  string `json:"subject"`
			Topic    string `json:"topic"`
			Language string `json:"language"`
			Pages    int    `json:"pages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
			return
		}

		filename := strings.ReplaceAll(fmt.Sprintf("Class%d_%s_%s_presentation.pptx", req.Grade, req.Subject, req.Topic), " ", "_")
		writeJSON(w, http.StatusOK, map[string]string{
			"filename":   filename,
			"public_url": strings.TrimRight(s.config.PublicURLBase, "/") + "/" + url.PathEscape(filename),
			"stdout":     fmt.Sprintf("Generated %d slides in %s", req.Pages, req.Language),
		})
	}
}

func validateCredentials(email, password string) string {
	if !strings.Contains(email, "@") {
		return "Unable to validate email address: invalid format"
	}
	if len(password) < minPasswordLength {
		return fmt.Sprintf("Password should be at least %d characters.", minPasswordLength)
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("authstub: failed to write response")
	}
}
