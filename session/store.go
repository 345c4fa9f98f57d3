package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/go-classroom/kv"
	"github.com/rs/zerolog/log"
)

// StorageKey is the one key the session record is stored under.
const StorageKey = "session"

// Store persists a single Record through a kv.Store.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Save writes rec wholesale. A record without an access token or expiry is
// ignored and the stored state is left untouched.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if !rec.HasCredentials() {
		log.Debug().Msg("session.Save: record without access_token/expires_at ignored")
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("[session.Save] marshal: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("[session.Save] %w", err)
	}
	return nil
}

// Load returns the stored record, or nil when nothing usable is stored.
func (s *Store) Load(ctx context.Context) *Record {
	value, found, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		log.Warn().Err(err).Msg("session.Load: storage read failed, treating as signed out")
		return nil
	}
	if !found {
		return nil
	}

	rec := &Record{}
	if err := json.Unmarshal([]byte(value), rec); err != nil {
		log.Warn().Err(err).Msg("session.Load: stored session is malformed, treating as signed out")
		return nil
	}
	return rec
}

// Clear removes the stored record. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("[session.Clear] %w", err)
	}
	return nil
}
