package auth

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-classroom/authclient"
	"github.com/jrsteele09/go-classroom/session"
	"github.com/rs/zerolog/log"
)

// API is the remote authentication service
type API interface {
	SignIn(ctx context.Context, email, password string) (*authclient.Response, error)
	SignUp(ctx context.Context, name, email, password string) (*authclient.Response, error)
	SignOut(ctx context.Context, accessToken string) (*authclient.Response, error)
}

var _ API = (*authclient.Client)(nil)

// Service pairs the remote calls with the session store. The API client
// never persists anything; all writes to the store happen here.
type Service struct {
	api   API
	store *session.Store
}

func NewService(api API, store *session.Store) *Service {
	return &Service{
		api:   api,
		store: store,
	}
}

// SignIn authenticates and stores the returned session. A response without
// a usable session leaves the store unchanged.
func (s *Service) SignIn(ctx context.Context, email, password string) (*authclient.Response, error) {
	resp, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, resp.Data.Session); err != nil {
		return nil, fmt.Errorf("[auth.SignIn] %w", err)
	}
	return resp, nil
}

// SignUp registers and, when the service signs the new user straight in,
// stores the session.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*authclient.Response, error) {
	resp, err := s.api.SignUp(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, resp.Data.Session); err != nil {
		return nil, fmt.Errorf("[auth.SignUp] %w", err)
	}
	return resp, nil
}

// SignOut ends the session remotely and clears it locally. The local clear
// happens even when the remote call fails so the client is never left
// looking signed in; the remote error is still returned.
func (s *Service) SignOut(ctx context.Context) error {
	var accessToken string
	if rec := s.store.Load(ctx); rec != nil {
		accessToken = rec.AccessToken
	}

	_, remoteErr := s.api.SignOut(ctx, accessToken)
	if remoteErr != nil {
		log.Warn().Err(remoteErr).Msg("auth.SignOut: remote sign-out failed, clearing local session anyway")
	}

	if err := s.store.Clear(ctx); err != nil {
		if remoteErr != nil {
			return remoteErr
		}
		return fmt.Errorf("[auth.SignOut] %w", err)
	}
	return remoteErr
}

// Session returns the stored session, or nil
func (s *Service) Session(ctx context.Context) *session.Record {
	return s.store.Load(ctx)
}
