package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	BackendConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDataFolder() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type BackendConfig interface {
	GetBackendURL() string
	GetAuthBaseURL() string
	GetPresentationURL() string
	GetAuthTimeout() time.Duration
}

type SessionConfig interface {
	GetSessionBackend() string
	GetSecureCookies() bool
	GetSessionWatchInterval() time.Duration
	GetRedisSessionTTL() time.Duration
}

type mainConfig struct {
	EnvVars
	Cors
	Backend
	Session
}

func New() Config {
	return mainConfig{}
}
