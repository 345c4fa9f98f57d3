package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SessionStatus is polled by signed-in pages to notice expiry
type SessionStatus struct {
	Authenticated bool  `json:"authenticated"`
	ExpiresAt     int64 `json:"expires_at,omitempty"`
	ExpiresIn     int64 `json:"expires_in,omitempty"` // seconds
}

// SessionStatusHandler reports whether the browser's session is valid
func (s *Server) SessionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := s.sessionStore(w, r).Load(r.Context())
		now := s.now()

		status := SessionStatus{}
		if rec.ValidAt(now) {
			status.Authenticated = true
			status.ExpiresAt = rec.ExpiresAt
			status.ExpiresIn = rec.ExpiresAt - now.Unix()
		}
		writeJSON(w, http.StatusOK, status)
	}
}

// HealthHandler answers liveness probes
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}
