package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const (
	keyAccessToken  = "access_token"
	keyExpiresAt    = "expires_at"
	keyRefreshToken = "refresh_token"
	keyTokenType    = "token_type"
	keyUser         = "user"
)

var errNotObject = errors.New("session record is not a JSON object")

// Record is the persisted proof of authentication returned by the remote
// auth service. AccessToken and ExpiresAt are the only fields interpreted;
// everything else the service sent (refresh_token, token_type, user, ...)
// is kept verbatim in Extra and written back unchanged.
type Record struct {
	AccessToken string                     // Opaque bearer token (a JWT in practice)
	ExpiresAt   int64                      // Seconds since the Unix epoch
	Extra       map[string]json.RawMessage // Uninterpreted fields
}

// HasCredentials reports whether both the access token and expiry are set.
func (r *Record) HasCredentials() bool {
	return r != nil && r.AccessToken != "" && r.ExpiresAt != 0
}

// ValidAt reports whether the record is usable at now. A record expiring
// exactly at now is expired.
func (r *Record) ValidAt(now time.Time) bool {
	return r.HasCredentials() && r.ExpiresAt > now.Unix()
}

// Expiry returns ExpiresAt as a time.Time
func (r *Record) Expiry() time.Time {
	if r == nil || r.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(r.ExpiresAt, 0)
}

// Token converts the record into an OAuth2 bearer token for calling
// downstream APIs on the user's behalf.
func (r *Record) Token() *oauth2.Token {
	if r == nil {
		return nil
	}
	tok := &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.extraString(keyTokenType),
		RefreshToken: r.extraString(keyRefreshToken),
		Expiry:       r.Expiry(),
	}
	if tok.TokenType == "" {
		tok.TokenType = "bearer"
	}
	return tok
}

// Claims decodes the access token's JWT claims without verifying the
// signature. It is meant for display only; the remote service remains the
// authority on the token.
func (r *Record) Claims() (jwtlib.MapClaims, error) {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(r.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("jwt.ParseUnverified: %w", err)
	}
	return claims, nil
}

// Email returns the signed-in user's email from the stored user object, or
// from the token claims when the service did not send one.
func (r *Record) Email() string {
	if r == nil {
		return ""
	}
	if raw, ok := r.Extra[keyUser]; ok {
		var user struct {
			Email string `json:"email"`
		}
		if json.Unmarshal(raw, &user) == nil && user.Email != "" {
			return user.Email
		}
	}
	claims, err := r.Claims()
	if err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func (r *Record) extraString(key string) string {
	raw, ok := r.Extra[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (r Record) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(r.Extra)+2)
	for k, v := range r.Extra {
		fields[k] = v
	}
	if r.AccessToken != "" {
		token, err := json.Marshal(r.AccessToken)
		if err != nil {
			return nil, err
		}
		fields[keyAccessToken] = token
	}
	if r.ExpiresAt != 0 {
		fields[keyExpiresAt] = json.RawMessage(fmt.Sprintf("%d", r.ExpiresAt))
	}
	return json.Marshal(fields)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotObject
	}

	rec := Record{}
	if raw, ok := fields[keyAccessToken]; ok {
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &rec.AccessToken); err != nil {
				return fmt.Errorf("%s: %w", keyAccessToken, err)
			}
		}
		delete(fields, keyAccessToken)
	}
	if raw, ok := fields[keyExpiresAt]; ok {
		if !isNull(raw) {
			expiresAt, err := parseSeconds(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", keyExpiresAt, err)
			}
			rec.ExpiresAt = expiresAt
		}
		delete(fields, keyExpiresAt)
	}
	if len(fields) > 0 {
		rec.Extra = fields
	}

	*r = rec
	return nil
}

// parseSeconds reads expires_at as whole seconds. Numeric strings are
// accepted the way a browser client coerces them; an empty string is 0.
func parseSeconds(raw json.RawMessage) (int64, error) {
	var n json.Number
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, err
		}
		if s = strings.TrimSpace(s); s == "" {
			return 0, nil
		}
		n = json.Number(s)
	} else if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v out of range", f)
	}
	return int64(f), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
