package config

import (
	"strings"
	"time"
)

const (
	backendURLVar      = "BACKEND_URL"
	presentationURLVar = "PPT_URL"
	authTimeoutVar     = "AUTH_TIMEOUT"
)

type Backend struct{}

var _ BackendConfig = Backend{}

// GetBackendURL returns the origin of the remote service (e.g. "https://api.example.com").
func (Backend) GetBackendURL() string {
	return strings.TrimRight(GetEnv(backendURLVar, "http://localhost:8000"), "/")
}

// GetAuthBaseURL is the backend URL with the /auth prefix the auth routes are mounted under.
func (b Backend) GetAuthBaseURL() string {
	return b.GetBackendURL() + "/auth"
}

// GetPresentationURL defaults to the auth backend, which also hosts /ppt.
func (b Backend) GetPresentationURL() string {
	return strings.TrimRight(GetEnv(presentationURLVar, b.GetBackendURL()), "/")
}

// GetAuthTimeout is zero (transport default) unless AUTH_TIMEOUT is set.
func (Backend) GetAuthTimeout() time.Duration {
	return GetEnvDuration(authTimeoutVar, 0)
}
