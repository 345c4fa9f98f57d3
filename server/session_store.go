package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-classroom/auth"
	"github.com/jrsteele09/go-classroom/internal/config"
	"github.com/jrsteele09/go-classroom/kv"
	"github.com/jrsteele09/go-classroom/kv/cookiekv"
	"github.com/jrsteele09/go-classroom/kv/rediskv"
	"github.com/jrsteele09/go-classroom/session"
)

// browserIDCookieName identifies a browser's namespace in redis
const browserIDCookieName = "classroom_sid"

// sessionStore returns the session store of the browser that sent r. With
// the cookie backend the session lives in the browser itself; with redis
// only an opaque browser id does.
func (s *Server) sessionStore(w http.ResponseWriter, r *http.Request) *session.Store {
	return session.NewStore(s.kvFor(w, r))
}

func (s *Server) kvFor(w http.ResponseWriter, r *http.Request) kv.Store {
	if s.config.GetSessionBackend() == config.SessionBackendRedis {
		return rediskv.New(s.redis, s.redisKeyNS, s.browserID(w, r), s.config.GetRedisSessionTTL())
	}
	return cookiekv.New(w, r, cookiekv.Options{Secure: s.config.GetSecureCookies()})
}

// validatorFor is the guard's view of a request's session
func (s *Server) validatorFor(w http.ResponseWriter, r *http.Request) session.Validator {
	return session.NewChecker(s.sessionStore(w, r), session.WithClock(s.now))
}

func (s *Server) authService(w http.ResponseWriter, r *http.Request) *auth.Service {
	return auth.NewService(s.authAPI, s.sessionStore(w, r))
}

// browserID returns the id in the browser id cookie, issuing a new one when
// it is missing or malformed. A newly issued id is also added to r so later
// lookups in the same request agree.
func (s *Server) browserID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(browserIDCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.New().String()
	cookie := &http.Cookie{
		Name:     browserIDCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.config.GetRedisSessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.config.GetSecureCookies() || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	r.AddCookie(&http.Cookie{Name: browserIDCookieName, Value: id})
	return id
}
