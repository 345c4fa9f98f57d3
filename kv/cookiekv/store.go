// Package cookiekv stores key/value pairs in browser cookies. A Store is
// bound to one request/response pair: reads come from the request, writes
// are emitted as Set-Cookie headers and are visible to later reads on the
// same Store.
package cookiekv

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-classroom/kv"
)

// chunkSize keeps each cookie, including its attributes, under the 4096
// byte limit browsers enforce.
const chunkSize = 3800

// maxChunks bounds how many continuation cookies are scanned for one key.
const maxChunks = 10

var _ kv.Store = (*Store)(nil)

type Options struct {
	Path   string
	Secure bool
	// MaxAge in seconds; zero makes the cookies last for the browser session.
	MaxAge int
}

type Store struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    Options
	pending map[string]*string // nil value marks a removed key
	written map[string]int     // chunks emitted per key in this response
}

func New(w http.ResponseWriter, r *http.Request, opts Options) *Store {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if r.TLS != nil {
		opts.Secure = true
	}
	return &Store{
		w:       w,
		r:       r,
		opts:    opts,
		pending: make(map[string]*string),
		written: make(map[string]int),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, kv.ErrKeyRequired
	}
	if value, ok := s.pending[key]; ok {
		if value == nil {
			return "", false, nil
		}
		return *value, true, nil
	}

	var encoded strings.Builder
	for i := 0; i < maxChunks; i++ {
		cookie, err := s.r.Cookie(chunkName(key, i))
		if err != nil {
			break
		}
		encoded.WriteString(cookie.Value)
	}
	if encoded.Len() == 0 {
		return "", false, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(encoded.String())
	if err != nil {
		return "", false, fmt.Errorf("error decoding cookie %s: %w", key, err)
	}
	return string(decoded), true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}

	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	chunks := split(encoded)
	if len(chunks) > maxChunks {
		return fmt.Errorf("value for %s is too large for cookie storage (%d bytes)", key, len(value))
	}
	for i, chunk := range chunks {
		s.setCookie(chunkName(key, i), chunk, s.opts.MaxAge)
	}
	s.expireFrom(key, len(chunks))

	s.written[key] = len(chunks)
	s.pending[key] = &value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	if key == "" {
		return kv.ErrKeyRequired
	}
	s.expireFrom(key, 0)
	s.written[key] = 0
	s.pending[key] = nil
	return nil
}

// expireFrom deletes the chunks of key, starting at index first, that the
// request carried or this response already wrote.
func (s *Store) expireFrom(key string, first int) {
	for i := first; i < maxChunks; i++ {
		name := chunkName(key, i)
		_, err := s.r.Cookie(name)
		if err != nil && i >= s.written[key] && i != 0 {
			continue
		}
		s.setCookie(name, "", -1)
	}
}

func (s *Store) setCookie(name, value string, maxAge int) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     s.opts.Path,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func chunkName(key string, i int) string {
	if i == 0 {
		return key
	}
	return fmt.Sprintf("%s.%d", key, i)
}

func split(value string) []string {
	var chunks []string
	for len(value) > chunkSize {
		chunks = append(chunks, value[:chunkSize])
		value = value[chunkSize:]
	}
	return append(chunks, value)
}
