package server_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-classroom/authclient"
	"github.com/jrsteele09/go-classroom/authstub"
	"github.com/jrsteele09/go-classroom/internal/config"
	"github.com/jrsteele09/go-classroom/server"
	"github.com/jrsteele09/go-classroom/session"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "teacher@example.com"
	testPassword = "secret1"
)

type harness struct {
	stub       *authstub.Server
	backendURL string
	app        *httptest.Server
	client     *http.Client
}

func newHarness(t *testing.T, opts ...server.Option) *harness {
	t.Helper()

	stub := authstub.New(authstub.Config{Secret: []byte("test-secret"), TokenTTL: time.Hour})
	require.NoError(t, stub.AddUser("Teacher", testEmail, testPassword))
	backend := httptest.NewServer(stub)
	t.Cleanup(backend.Close)

	t.Setenv("ENV", "TEST")
	t.Setenv("BACKEND_URL", backend.URL)

	s, err := server.New(config.New(), opts...)
	require.NoError(t, err)
	app := httptest.NewServer(s)
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &harness{stub: stub, backendURL: backend.URL, app: app, client: client}
}

func (h *harness) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := h.client.Get(h.app.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (h *harness) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := h.client.PostForm(h.app.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	resp := h.post(t, "/signin", url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/classes", resp.Header.Get("Location"))
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func sessionStatus(t *testing.T, h *harness) server.SessionStatus {
	t.Helper()
	resp := h.get(t, "/api/session")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status server.SessionStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	return status
}

func TestProtectedViews_RedirectToSignInWithoutSession(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/dashboard", "/presentation", "/dashboard?grade=7"} {
		resp := h.get(t, path)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.Equal(t, "/", resp.Header.Get("Location"), "no return-to parameter is kept")
	}

	resp := h.get(t, "/classes")
	require.Equal(t, http.StatusOK, resp.StatusCode, "class selection is not protected")
}

func TestProtectedViews_HTMXRedirect(t *testing.T) {
	h := newHarness(t)

	req, err := http.NewRequest(http.MethodGet, h.app.URL+"/dashboard", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("HX-Redirect"))
}

func TestSignIn_SignOut(t *testing.T) {
	h := newHarness(t)

	require.False(t, sessionStatus(t, h).Authenticated)
	h.signIn(t)

	status := sessionStatus(t, h)
	require.True(t, status.Authenticated)
	require.Greater(t, status.ExpiresIn, int64(0))

	resp := h.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	require.Contains(t, page, testEmail)
	require.Contains(t, page, `data-watch-session="/api/session"`)

	resp = h.post(t, "/signout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	require.False(t, sessionStatus(t, h).Authenticated)
	resp = h.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	h := newHarness(t)

	resp := h.post(t, "/signin", url.Values{"email": {testEmail}, "password": {"wrong-password"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/", loc.Path)
	require.Equal(t, "Invalid login credentials", loc.Query().Get("error"))
	require.Equal(t, testEmail, loc.Query().Get("email"))

	require.False(t, sessionStatus(t, h).Authenticated)

	resp = h.get(t, resp.Header.Get("Location"))
	require.Contains(t, body(t, resp), "Invalid login credentials")
}

func TestSignIn_MissingFields(t *testing.T) {
	h := newHarness(t)

	resp := h.post(t, "/signin", url.Values{"email": {testEmail}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "error=Please+fill+in+all+required+fields")
}

func TestSignOut_RemoteFailureStillClearsSession(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	// Revoke the token behind the browser's back so the remote sign-out fails
	appURL, err := url.Parse(h.app.URL)
	require.NoError(t, err)
	var rec session.Record
	for _, c := range h.client.Jar.Cookies(appURL) {
		if c.Name == session.StorageKey {
			raw, err := base64.RawURLEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, &rec))
		}
	}
	require.NotEmpty(t, rec.AccessToken)
	_, err = authclient.New(h.backendURL+"/auth").SignOut(context.Background(), rec.AccessToken)
	require.NoError(t, err)

	resp := h.post(t, "/signout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/", loc.Path)
	require.NotEmpty(t, loc.Query().Get("error"))

	require.False(t, sessionStatus(t, h).Authenticated)
	require.Equal(t, http.StatusSeeOther, h.get(t, "/dashboard").StatusCode)
}

func TestSignUp(t *testing.T) {
	h := newHarness(t)

	resp := h.post(t, "/signup", url.Values{"name": {"New Teacher"}, "email": {"new@example.com"}, "password": {"secret1"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/", loc.Path)
	require.NotEmpty(t, loc.Query().Get("notice"))

	resp = h.post(t, "/signup", url.Values{"name": {"Teacher"}, "email": {testEmail}, "password": {"secret1"}})
	loc, err = url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/signup", loc.Path)
	require.Equal(t, "User already registered", loc.Query().Get("error"))
	require.Equal(t, "Teacher", loc.Query().Get("name"))
}

func TestSessionExpiry_ClockAdvance(t *testing.T) {
	var skew atomic.Int64
	h := newHarness(t, server.WithClock(func() time.Time {
		return time.Now().Add(time.Duration(skew.Load()))
	}))
	h.signIn(t)

	require.Equal(t, http.StatusOK, h.get(t, "/dashboard").StatusCode)

	skew.Store(int64(2 * time.Hour))
	require.False(t, sessionStatus(t, h).Authenticated)
	resp := h.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestDashboardItems_AddCard(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	page := body(t, h.get(t, "/dashboard"))
	require.Contains(t, page, "Add New Item")
	require.Contains(t, page, `<dialog id="add-item">`)
	require.Zero(t, strings.Count(page, `class="card"`))

	resp := h.post(t, "/dashboard/items", url.Values{
		"card_label": {"Lessons"},
		"card_value": {"12"},
		"label":      {"  Quizzes "},
		"value":      {" 4 "},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = body(t, resp)
	require.Equal(t, 2, strings.Count(page, `class="card"`))
	require.Contains(t, page, "Lessons")
	require.Contains(t, page, `<p class="card-label">Quizzes</p>`)
	require.Contains(t, page, `<p class="card-value">4</p>`)
	require.Contains(t, page, `<dialog id="add-item">`, "dialog closes after a successful add")

	// Cards are not persisted.
	page = body(t, h.get(t, "/dashboard"))
	require.NotContains(t, page, "Quizzes")
}

func TestDashboardItems_BlankFieldsRejected(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	for _, form := range []url.Values{
		{"label": {"   "}, "value": {"4"}},
		{"label": {"Quizzes"}, "value": {"\t"}},
		{"card_label": {"Lessons"}, "card_value": {"12"}},
	} {
		resp := h.post(t, "/dashboard/items", form)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		page := body(t, resp)
		require.Contains(t, page, "Please fill in all required fields")
		require.Contains(t, page, `<dialog id="add-item" open>`)
		require.Equal(t, len(form["card_label"]), strings.Count(page, `class="card"`), "no card added")
	}
}

func TestDashboardItems_RequiresSession(t *testing.T) {
	h := newHarness(t)

	resp := h.post(t, "/dashboard/items", url.Values{"label": {"Quizzes"}, "value": {"4"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestPresentation_Generate(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	resp := h.get(t, "/presentation?grade=7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), `<option value="7" selected>`)

	resp = h.post(t, "/presentation", url.Values{
		"grade": {"7"}, "subject": {"Science"}, "topic": {"Light and Shadow"}, "language": {"English"}, "pages": {"6"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), "Class7_Science_Light_and_Shadow_presentation.pptx")

	resp = h.post(t, "/presentation", url.Values{"grade": {"7"}, "subject": {"Science"}, "topic": {"Light"}, "pages": {"40"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body(t, resp), "pages must be between 1 and 20")
}

func TestRedisSessionBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	t.Setenv("SESSION_BACKEND", "redis")
	h := newHarness(t, server.WithRedis(rdb, "test"))
	h.signIn(t)

	appURL, err := url.Parse(h.app.URL)
	require.NoError(t, err)
	var sid string
	for _, c := range h.client.Jar.Cookies(appURL) {
		require.NotEqual(t, "session", c.Name, "the session itself stays server side")
		if c.Name == "classroom_sid" {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)

	keys, err := rdb.Keys(context.Background(), "test:"+sid+":*").Result()
	require.NoError(t, err)
	require.Equal(t, []string{"test:" + sid + ":session"}, keys)
	require.Equal(t, http.StatusOK, h.get(t, "/dashboard").StatusCode)

	h.post(t, "/signout", nil)
	require.False(t, mr.Exists("test:"+sid+":session"))
}

func TestRedisSessionBackend_RequiresClient(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	_, err := server.New(config.New())
	require.Error(t, err)
}

func TestSessionStatus_CORS(t *testing.T) {
	h := newHarness(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")

	req, err := http.NewRequest(http.MethodOptions, h.app.URL+"/api/session", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestStaticAndHealth(t *testing.T) {
	h := newHarness(t)

	resp := h.get(t, "/js/session.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/javascript"))

	resp = h.get(t, "/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
