// Package presentation requests slide decks from the generation service on
// behalf of the signed-in user.
package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-classroom/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	generatePath    = "/ppt/generate-ppt"
	defaultLanguage = "English"
	minPages        = 1
	maxPages        = 20
	minGrade        = 6
	maxGrade        = 8
)

// Request describes the deck to generate
type Request struct {
	Grade    int    `json:"grade"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Pages    int    `json:"pages"`
}

// Result is returned once the deck has been generated and uploaded
type Result struct {
	Filename  string `json:"filename"`
	PublicURL string `json:"public_url"`
	Stdout    string `json:"stdout,omitempty"`
}

// Normalize trims the text fields and applies defaults
func (r *Request) Normalize() {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Language = strings.TrimSpace(r.Language)
	if r.Language == "" {
		r.Language = defaultLanguage
	}
	if r.Pages == 0 {
		r.Pages = 5
	}
}

// Validate checks the request before it is sent
func (r Request) Validate() error {
	if r.Subject == "" || r.Topic == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "subject and topic are required")
	}
	if r.Grade < minGrade || r.Grade > maxGrade {
		return errors.Wrapf(errors.ErrInvalidRequest, "grade must be between %d and %d", minGrade, maxGrade)
	}
	if r.Pages < minPages || r.Pages > maxPages {
		return errors.Wrapf(errors.ErrInvalidRequest, "pages must be between %d and %d", minPages, maxPages)
	}
	return nil
}

// Error is returned when the service rejects or fails a generation
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("presentation generation failed (%d): %s", e.StatusCode, e.Detail)
}

// Generator calls the generation service
type Generator struct {
	baseURL    string
	httpClient *http.Client
}

// NewGenerator creates a generator for the service at baseURL. httpClient is
// the transport the bearer-token client is layered over; nil uses the
// default client.
func NewGenerator(baseURL string, httpClient *http.Client) *Generator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Generator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Generate posts req using tokens from ts as the bearer credential
func (g *Generator) Generate(ctx context.Context, ts oauth2.TokenSource, req Request) (*Result, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("[presentation.Generate] marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("[presentation.Generate] create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, g.httpClient), ts)
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("[presentation.Generate] %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("[presentation.Generate] read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		genErr := &Error{StatusCode: resp.StatusCode, Detail: detailFrom(respBytes)}
		log.Warn().Int("status", resp.StatusCode).Str("topic", req.Topic).Msg(genErr.Error())
		return nil, genErr
	}

	result := &Result{}
	if err := json.Unmarshal(respBytes, result); err != nil {
		return nil, fmt.Errorf("[presentation.Generate] decode response: %w", err)
	}
	log.Info().Str("filename", result.Filename).Msg("presentation generated")
	return result, nil
}

// detailFrom extracts FastAPI's {"detail": ...} message, falling back to
// the raw body.
func detailFrom(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(body))
}
