package rediskv

import (
	"crypto/tls"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

const envconfigPrefix = "REDIS"

// Config represents the connection options for the Redis session backend
type Config struct {
	Addr      string `envconfig:"ADDR" default:"localhost:6379"`
	Password  string `envconfig:"PASSWORD"`
	DB        int    `envconfig:"DB"`
	EnableTLS bool   `envconfig:"ENABLE_TLS"`
	Prefix    string `envconfig:"PREFIX" default:"classroom"`
}

// ConfigFromEnv reads REDIS_* environment variables
func ConfigFromEnv() (Config, error) {
	c := Config{}
	if err := envconfig.Process(envconfigPrefix, &c); err != nil {
		return Config{}, fmt.Errorf("error getting redis configuration from environment: %w", err)
	}
	return c, nil
}

// Client returns a connection to the Redis database described by c
func (c Config) Client() *redis.Client {
	opts := &redis.Options{
		Addr:       c.Addr,
		Password:   c.Password,
		DB:         c.DB,
		MaxRetries: 3,
	}
	if c.EnableTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	return redis.NewClient(opts)
}
