package config

import (
	"strings"
	"time"
)

const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionBackend() string {
	switch backend := strings.ToLower(GetEnv("SESSION_BACKEND", SessionBackendCookie)); backend {
	case SessionBackendRedis:
		return backend
	default:
		return SessionBackendCookie
	}
}

func (Session) GetSecureCookies() bool {
	return GetEnvBool("SECURE_COOKIES", false)
}

func (Session) GetSessionWatchInterval() time.Duration {
	return GetEnvDuration("SESSION_WATCH_INTERVAL", 30*time.Second)
}

func (Session) GetRedisSessionTTL() time.Duration {
	return GetEnvDuration("REDIS_SESSION_TTL", 7*24*time.Hour) // 7 days
}
