package cookiekv_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-classroom/kv/cookiekv"
	"github.com/stretchr/testify/require"
)

// carry copies the live cookies from a response onto a fresh request, the
// way a browser would on its next navigation.
func carry(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func TestStore_RoundTripAcrossRequests(t *testing.T) {
	ctx := context.Background()
	value := `{"access_token":"abc","expires_at":1700000000}`

	rec := httptest.NewRecorder()
	s := cookiekv.New(rec, httptest.NewRequest(http.MethodPost, "/signin", nil), cookiekv.Options{})
	require.NoError(t, s.Set(ctx, "session", value))

	got, found, err := s.Get(ctx, "session")
	require.NoError(t, err)
	require.True(t, found, "writes are visible within the same request")
	require.Equal(t, value, got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	require.NotContains(t, cookies[0].Value, `"`)

	next := cookiekv.New(httptest.NewRecorder(), carry(t, rec), cookiekv.Options{})
	got, found, err = next.Get(ctx, "session")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, value, got)
}

func TestStore_LargeValuesAreChunked(t *testing.T) {
	ctx := context.Background()
	value := strings.Repeat("x", 9000)

	rec := httptest.NewRecorder()
	s := cookiekv.New(rec, httptest.NewRequest(http.MethodGet, "/", nil), cookiekv.Options{})
	require.NoError(t, s.Set(ctx, "session", value))
	require.Greater(t, len(rec.Result().Cookies()), 1)

	next := cookiekv.New(httptest.NewRecorder(), carry(t, rec), cookiekv.Options{})
	got, found, err := next.Get(ctx, "session")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, value, got)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()

	rec := httptest.NewRecorder()
	s := cookiekv.New(rec, httptest.NewRequest(http.MethodGet, "/", nil), cookiekv.Options{})
	require.NoError(t, s.Set(ctx, "session", strings.Repeat("y", 5000)))

	req := carry(t, rec)
	out := httptest.NewRecorder()
	s = cookiekv.New(out, req, cookiekv.Options{})
	require.NoError(t, s.Remove(ctx, "session"))
	require.NoError(t, s.Remove(ctx, "session"))

	_, found, err := s.Get(ctx, "session")
	require.NoError(t, err)
	require.False(t, found)

	for _, c := range out.Result().Cookies() {
		require.Negative(t, c.MaxAge, "cookie %s should be expired", c.Name)
	}
}

func TestStore_SecureOverTLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://classroom.example.com/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, cookiekv.New(rec, req, cookiekv.Options{}).Set(context.Background(), "session", "v"))
	require.True(t, rec.Result().Cookies()[0].Secure)
}

func TestStore_CorruptCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "***"})
	_, _, err := cookiekv.New(httptest.NewRecorder(), req, cookiekv.Options{}).Get(context.Background(), "session")
	require.Error(t, err)
}
