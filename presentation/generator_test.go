package presentation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-classroom/internal/errors"
	"github.com/jrsteele09/go-classroom/presentation"
	"github.com/jrsteele09/go-classroom/session"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func tokenSource() oauth2.TokenSource {
	rec := &session.Record{AccessToken: "abc", ExpiresAt: 4102444800} // 2100-01-01
	return oauth2.StaticTokenSource(rec.Token())
}

func TestGenerator_Generate(t *testing.T) {
	var got presentation.Request
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"filename":"Class7_Science_Plants_presentation.pptx","public_url":"https://cdn.example.com/Class7_Science_Plants_presentation.pptx","stdout":"ok"}`))
	}))
	defer srv.Close()

	g := presentation.NewGenerator(srv.URL, srv.Client())
	res, err := g.Generate(context.Background(), tokenSource(), presentation.Request{
		Grade:   7,
		Subject: " Science ",
		Topic:   "Plants",
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/Class7_Science_Plants_presentation.pptx", res.PublicURL)

	require.Equal(t, "Bearer abc", auth)
	require.Equal(t, presentation.Request{Grade: 7, Subject: "Science", Topic: "Plants", Language: "English", Pages: 5}, got)
}

func TestGenerator_Validation(t *testing.T) {
	g := presentation.NewGenerator("http://127.0.0.1:0", nil)

	for name, req := range map[string]presentation.Request{
		"missing subject": {Grade: 6, Topic: "Fractions"},
		"missing topic":   {Grade: 6, Subject: "Maths"},
		"grade too low":   {Grade: 5, Subject: "Maths", Topic: "Fractions"},
		"grade too high":  {Grade: 9, Subject: "Maths", Topic: "Fractions"},
		"too many pages":  {Grade: 6, Subject: "Maths", Topic: "Fractions", Pages: 21},
		"negative pages":  {Grade: 6, Subject: "Maths", Topic: "Fractions", Pages: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tokenSource(), req)
			require.ErrorIs(t, err, errors.ErrInvalidRequest)
		})
	}
}

func TestGenerator_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"PPT generation failed: boom"}`))
	}))
	defer srv.Close()

	_, err := presentation.NewGenerator(srv.URL, nil).Generate(context.Background(), tokenSource(), presentation.Request{
		Grade: 8, Subject: "History", Topic: "Empires", Pages: 3,
	})
	require.Error(t, err)

	var genErr *presentation.Error
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, http.StatusInternalServerError, genErr.StatusCode)
	require.Equal(t, "PPT generation failed: boom", genErr.Detail)
}
