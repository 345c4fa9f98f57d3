package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jrsteele09/go-classroom/auth"
	"github.com/jrsteele09/go-classroom/authclient"
	"github.com/jrsteele09/go-classroom/internal/errors"
	"github.com/jrsteele09/go-classroom/kv/memorykv"
	"github.com/jrsteele09/go-classroom/session"
	"github.com/stretchr/testify/require"
)

// testFixture holds a service wired to a fake remote endpoint
type testFixture struct {
	store   *session.Store
	checker *session.Checker
	service *auth.Service
}

func setupTestFixture(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *testFixture {
	t.Helper()

	f := &testFixture{}
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc("POST /auth"+path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f.store = session.NewStore(memorykv.New())
	f.checker = session.NewChecker(f.store)
	f.service = auth.NewService(authclient.New(srv.URL+"/auth"), f.store)
	return f
}

func respond(status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// future returns an expires_at an hour from now
func future() string {
	return strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
}

func TestService_SignInStoresSession(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
		"/signin": respond(http.StatusOK, `{"success":true,"data":{"session":{"access_token":"abc","expires_at":`+future()+`}}}`),
	})

	require.False(t, f.checker.IsValid(ctx))
	_, err := f.service.SignIn(ctx, "a@b.c", "secret")
	require.NoError(t, err)
	require.True(t, f.checker.IsValid(ctx))
	require.Equal(t, "abc", f.service.Session(ctx).AccessToken)
}

func TestService_SignInFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
		"/signin": respond(http.StatusUnauthorized, `{"success":false,"message":"Sign in failed.","error":"invalid credentials"}`),
	})

	existing := &session.Record{AccessToken: "old", ExpiresAt: time.Now().Add(time.Hour).Unix()}
	require.NoError(t, f.store.Save(ctx, existing))

	_, err := f.service.SignIn(ctx, "a@b.c", "wrong")
	require.EqualError(t, err, "invalid credentials")
	require.Equal(t, existing, f.store.Load(ctx))
}

func TestService_SignInWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
		"/signin": respond(http.StatusOK, `{"success":true,"data":{"user_id":"u1"}}`),
	})

	_, err := f.service.SignIn(ctx, "a@b.c", "secret")
	require.NoError(t, err)
	require.Nil(t, f.store.Load(ctx))
}

func TestService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("without session", func(t *testing.T) {
		f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
			"/signup": respond(http.StatusCreated, `{"success":true,"data":{"user_id":"u1","email":"a@b.c"}}`),
		})
		resp, err := f.service.SignUp(ctx, "Ada", "a@b.c", "secret")
		require.NoError(t, err)
		require.Equal(t, "u1", resp.Data.UserID)
		require.False(t, f.checker.IsValid(ctx))
	})

	t.Run("with session", func(t *testing.T) {
		f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
			"/signup": respond(http.StatusCreated, `{"success":true,"data":{"session":{"access_token":"new","expires_at":`+future()+`}}}`),
		})
		_, err := f.service.SignUp(ctx, "Ada", "a@b.c", "secret")
		require.NoError(t, err)
		require.True(t, f.checker.IsValid(ctx))
	})

	t.Run("conflict", func(t *testing.T) {
		f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
			"/signup": respond(http.StatusConflict, `{"success":false,"error":"User already registered"}`),
		})
		_, err := f.service.SignUp(ctx, "Ada", "a@b.c", "secret")
		require.EqualError(t, err, "User already registered")
	})
}

func TestService_SignOut(t *testing.T) {
	ctx := context.Background()
	valid := &session.Record{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour).Unix()}

	t.Run("success clears the store", func(t *testing.T) {
		var bearer string
		f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
			"/signout": func(w http.ResponseWriter, r *http.Request) {
				bearer = r.Header.Get("Authorization")
				respond(http.StatusOK, `{"success":true}`)(w, r)
			},
		})
		require.NoError(t, f.store.Save(ctx, valid))
		require.NoError(t, f.service.SignOut(ctx))
		require.Nil(t, f.store.Load(ctx))
		require.Equal(t, "Bearer abc", bearer)
	})

	t.Run("remote failure still clears locally", func(t *testing.T) {
		f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
			"/signout": respond(http.StatusBadRequest, `{"success":false,"message":"Sign out failed: network"}`),
		})
		require.NoError(t, f.store.Save(ctx, valid))
		err := f.service.SignOut(ctx)
		require.EqualError(t, err, "Sign out failed: network")
		require.ErrorIs(t, err, errors.ErrRequestFailed)
		require.Nil(t, f.store.Load(ctx))
		require.False(t, f.checker.IsValid(ctx))
	})

	t.Run("signed out already", func(t *testing.T) {
		f := setupTestFixture(t, map[string]func(http.ResponseWriter, *http.Request){
			"/signout": respond(http.StatusOK, `{"success":true}`),
		})
		require.NoError(t, f.service.SignOut(ctx))
		require.Nil(t, f.store.Load(ctx))
	})
}
