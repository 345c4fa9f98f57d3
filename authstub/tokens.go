package authstub

import (
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// issuedSession mirrors the session object the real service returns
type issuedSession struct {
	AccessToken  string         `json:"access_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	ExpiresAt    int64          `json:"expires_at"`
	RefreshToken string         `json:"refresh_token"`
	User         map[string]any `json:"user"`
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

func newTokenIssuer(secret []byte, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret:  secret,
		ttl:     ttl,
		revoked: make(map[string]time.Time),
	}
}

func (ti *tokenIssuer) Issue(user *User) (*issuedSession, error) {
	now := NowTimeFunc()
	exp := now.Add(ti.ttl)
	claims := jwtlib.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  "authenticated",
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.New().String(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return &issuedSession{
		AccessToken:  signed,
		TokenType:    "bearer",
		ExpiresIn:    int64(ti.ttl.Seconds()),
		ExpiresAt:    exp.Unix(),
		RefreshToken: uuid.New().String(),
		User: map[string]any{
			"id":            user.ID,
			"email":         user.Email,
			"user_metadata": map[string]string{"name": user.Name},
		},
	}, nil
}

// Verify checks the signature, expiry and revocation of an access token
func (ti *tokenIssuer) Verify(raw string) (jwtlib.MapClaims, error) {
	claims := jwtlib.MapClaims{}
	_, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		return ti.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithTimeFunc(NowTimeFunc))
	if err != nil {
		return nil, err
	}

	jti, _ := claims["jti"].(string)
	ti.mu.Lock()
	defer ti.mu.Unlock()
	if _, revoked := ti.revoked[jti]; revoked {
		return nil, fmt.Errorf("token revoked")
	}
	return claims, nil
}

// Revoke invalidates the token with the given claims until it expires
func (ti *tokenIssuer) Revoke(claims jwtlib.MapClaims) {
	jti, _ := claims["jti"].(string)
	exp, _ := claims.GetExpirationTime()

	ti.mu.Lock()
	defer ti.mu.Unlock()

	now := NowTimeFunc()
	for id, until := range ti.revoked {
		if until.Before(now) {
			delete(ti.revoked, id)
		}
	}
	if jti != "" && exp != nil {
		ti.revoked[jti] = exp.Time
	}
}
