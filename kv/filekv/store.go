// Package filekv persists key/value pairs in a single JSON document on disk.
// It plays the part browser localStorage plays for a web client.
package filekv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-classroom/kv"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
)

// ErrCorrupt is returned by Get when the storage file is not a JSON object.
// Set and Remove replace a corrupt file instead of failing.
var ErrCorrupt = errors.New("storage file is corrupt")

const (
	defaultDirName  = ".classroom"
	defaultFileName = "storage.json"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a store backed by the file at path. The file and its
// directory are created on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns storage.json inside folder, or inside ~/.classroom
// when folder is empty.
func DefaultPath(folder string) (string, error) {
	if folder == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("error locating user's home directory: %w", err)
		}
		folder = filepath.Join(home, defaultDirName)
	}
	expanded, err := homedir.Expand(folder)
	if err != nil {
		return "", fmt.Errorf("homedir.Expand %s: %w", folder, err)
	}
	return filepath.Join(expanded, defaultFileName), nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, kv.ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readOrReset()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *Store) Remove(_ context.Context, key string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if errors.Is(err, ErrCorrupt) {
		log.Warn().Err(err).Msg("filekv: discarding corrupt storage file")
		return s.write(map[string]string{})
	}
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

func (s *Store) read() (map[string]string, error) {
	values := make(map[string]string)
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading storage file at %s: %w", s.path, err)
	}
	if len(content) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("error parsing storage file at %s: %w: %w", s.path, ErrCorrupt, err)
	}
	return values, nil
}

// readOrReset is read, with a corrupt file treated as empty so the next
// write replaces it. Other read failures are still returned.
func (s *Store) readOrReset() (map[string]string, error) {
	values, err := s.read()
	if errors.Is(err, ErrCorrupt) {
		log.Warn().Err(err).Msg("filekv: discarding corrupt storage file")
		return make(map[string]string), nil
	}
	return values, err
}

func (s *Store) write(values map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating storage directory at %s: %w", dir, err)
	}

	content, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling storage: %w", err)
	}

	tmp, err := os.CreateTemp(dir, defaultFileName+".*")
	if err != nil {
		return fmt.Errorf("error creating temp storage file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing temp storage file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("error setting storage file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp storage file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("error writing to %s: %w", s.path, err)
	}
	return nil
}
