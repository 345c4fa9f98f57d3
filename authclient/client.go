// Package authclient talks to the remote authentication service. It maps
// requests and responses only: persisting the returned session is the
// caller's job (see package auth).
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	opSignIn  = "signin"
	opSignUp  = "signup"
	opSignOut = "signout"

	headerRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"

	// maxBodyBytes bounds how much of a response is read
	maxBodyBytes = 1 << 20
)

// Client calls the sign-in, sign-up and sign-out endpoints under baseURL
// (e.g. "https://api.example.com/auth").
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. The default is no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignIn exchanges credentials for a session. The session is returned in
// Response.Data.Session and is not stored.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Response, error) {
	return c.do(ctx, opSignIn, FallbackSignIn, SignInRequest{Email: email, Password: password}, "")
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*Response, error) {
	return c.do(ctx, opSignUp, FallbackSignUp, SignUpRequest{Name: name, Email: email, Password: password}, "")
}

// SignOut ends the session on the service. accessToken, when non-empty, is
// sent as a bearer token so the service knows which session to end.
func (c *Client) SignOut(ctx context.Context, accessToken string) (*Response, error) {
	return c.do(ctx, opSignOut, FallbackSignOut, nil, accessToken)
}

func (c *Client) do(ctx context.Context, op, fallback string, body any, accessToken string) (*Response, error) {
	requestID := uuid.New().String()
	logger := log.With().Str("op", op).Str("request_id", requestID).Logger()

	fail := func(status int, message string, err error) error {
		reqErr := &RequestError{Op: op, StatusCode: status, Message: message, Err: err}
		logger.Warn().Int("status", status).Err(err).Str("message", message).Msg("auth request failed")
		return reqErr
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fail(0, fallback, fmt.Errorf("marshal request: %w", err))
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+op, reqBody)
	if err != nil {
		return nil, fail(0, fallback, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fail(0, fallback, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fail(resp.StatusCode, fallback, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if err := json.Unmarshal(respBytes, &eb); err != nil {
			return nil, fail(resp.StatusCode, fallback, fmt.Errorf("decode error response: %w", err))
		}
		return nil, fail(resp.StatusCode, messageFrom(eb, fallback), nil)
	}

	out := &Response{}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return nil, fail(resp.StatusCode, fallback, fmt.Errorf("decode response: %w", err))
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("auth request succeeded")
	return out, nil
}
