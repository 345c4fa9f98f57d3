// Package rediskv is a kv.Store backed by Redis. Keys are namespaced so many
// clients (one per browser) can share a database.
package rediskv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-classroom/kv"
	"github.com/redis/go-redis/v9"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	rdb       redis.UniversalClient
	namespace string
	ttl       time.Duration
}

// New returns a store writing keys as "<prefix>:<namespace>:<key>". A zero
// ttl stores values without expiry.
func New(rdb redis.UniversalClient, prefix, namespace string, ttl time.Duration) *Store {
	parts := make([]string, 0, 2)
	for _, p := range []string{prefix, namespace} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return &Store{
		rdb:       rdb,
		namespace: strings.Join(parts, ":"),
		ttl:       ttl,
	}
}

func (s *Store) redisKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, kv.ErrKeyRequired
	}
	value, err := s.rdb.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}
	if err := s.rdb.Set(ctx, s.redisKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}
	if err := s.rdb.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", key, err)
	}
	return nil
}
