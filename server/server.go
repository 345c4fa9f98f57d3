package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-classroom/authclient"
	"github.com/jrsteele09/go-classroom/guard"
	"github.com/jrsteele09/go-classroom/internal/config"
	"github.com/jrsteele09/go-classroom/presentation"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	authAPI    *authclient.Client
	generator  *presentation.Generator
	guard      *guard.Guard
	redis      redis.UniversalClient
	redisKeyNS string
	now        func() time.Time
}

type Option func(*Server)

// WithRedis keeps sessions in redis instead of cookies. Required when the
// configured session backend is redis.
func WithRedis(rdb redis.UniversalClient, prefix string) Option {
	return func(s *Server) {
		s.redis = rdb
		s.redisKeyNS = prefix
	}
}

// WithHTTPClient sets the transport used for calls to the backend
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Server) {
		s.authAPI = authclient.New(s.config.GetAuthBaseURL(), authclient.WithHTTPClient(httpClient), authclient.WithTimeout(s.config.GetAuthTimeout()))
		s.generator = presentation.NewGenerator(s.config.GetPresentationURL(), httpClient)
	}
}

// WithClock overrides the clock session validity is judged against
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(c config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		env:       c.GetEnv(),
		mux:       http.NewServeMux(),
		config:    c,
		authAPI:   authclient.New(c.GetAuthBaseURL(), authclient.WithTimeout(c.GetAuthTimeout())),
		generator: presentation.NewGenerator(c.GetPresentationURL(), nil),
		guard:     guard.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if c.GetSessionBackend() == config.SessionBackendRedis && s.redis == nil {
		return nil, fmt.Errorf("[Server New] session backend %q needs a redis client", config.SessionBackendRedis)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}
