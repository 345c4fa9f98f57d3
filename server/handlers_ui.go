package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-classroom/classes"
	"github.com/jrsteele09/go-classroom/guard"
	"github.com/jrsteele09/go-classroom/internal/errors"
	"github.com/jrsteele09/go-classroom/presentation"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Languages offered by the presentation form
var Languages = []string{"English", "Hindi", "Bengali", "Tamil", "Telugu", "Marathi"}

// PageData is the template model for the signed-in pages
type PageData struct {
	AppName string
	Email   string
	Error   string

	// WatchSession makes the page poll the session endpoint and leave for
	// sign-in once the session has expired.
	WatchSession    bool
	WatchIntervalMs int64

	Classes   []classes.Class
	Class     *classes.Class
	Form      presentation.Request
	Languages []string
	Result    *presentation.Result

	Cards     []DashboardCard
	ItemForm  DashboardCard
	ItemModal bool
}

// DashboardCard is a quick-action item shown on the dashboard. Cards live in
// the page only; each add round-trips the current list through the form.
type DashboardCard struct {
	Label string
	Value string
}

const (
	formCardLabel = "card_label"
	formCardValue = "card_value"
)

const msgItemFieldsRequired = "Please fill in all required fields"

func (s *Server) pageData(r *http.Request, email string) PageData {
	data := PageData{
		AppName:         s.config.GetAppName(),
		Email:           email,
		Error:           r.URL.Query().Get("error"),
		WatchIntervalMs: s.config.GetSessionWatchInterval().Milliseconds(),
	}
	if grade, err := strconv.Atoi(r.FormValue("grade")); err == nil {
		if c, err := classes.ByGrade(grade); err == nil {
			data.Class = &c
		}
	}
	return data
}

// ClassesHandler renders the class selection gallery
func (s *Server) ClassesHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("classes.html")
	if err != nil {
		panic("Failed to parse classes template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData(r, "")
		data.Classes = classes.All()
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render classes template")
		}
	}
}

// DashboardHandler renders the signed-in dashboard
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		panic("Failed to parse dashboard template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rec := s.sessionStore(w, r).Load(r.Context())
		data := s.pageData(r, rec.Email())
		data.WatchSession = true
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
		}
	}
}

// DashboardItemHandler adds a card from the "Add New Item" dialog and
// re-renders the dashboard. Nothing is persisted.
func (s *Server) DashboardItemHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		panic("Failed to parse dashboard template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		rec := s.sessionStore(w, r).Load(r.Context())
		data := s.pageData(r, rec.Email())
		data.WatchSession = true
		data.Cards = cardsFromForm(r)

		status := http.StatusOK
		item := DashboardCard{
			Label: strings.TrimSpace(r.PostFormValue("label")),
			Value: strings.TrimSpace(r.PostFormValue("value")),
		}
		if item.Label == "" || item.Value == "" {
			status = http.StatusUnprocessableEntity
			data.Error = msgItemFieldsRequired
			data.ItemForm = item
			data.ItemModal = true
		} else {
			data.Cards = append(data.Cards, item)
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(status)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
		}
	}
}

// cardsFromForm pairs the repeated card fields posted back by the page.
func cardsFromForm(r *http.Request) []DashboardCard {
	labels := r.PostForm[formCardLabel]
	values := r.PostForm[formCardValue]
	cards := make([]DashboardCard, 0, len(labels))
	for i, label := range labels {
		if i >= len(values) {
			break
		}
		label, value := strings.TrimSpace(label), strings.TrimSpace(values[i])
		if label == "" || value == "" {
			continue
		}
		cards = append(cards, DashboardCard{Label: label, Value: value})
	}
	return cards
}

// PresentationPageHandler renders the deck generation form
func (s *Server) PresentationPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("presentation.html")
	if err != nil {
		panic("Failed to parse presentation template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rec := s.sessionStore(w, r).Load(r.Context())
		data := s.presentationData(r, rec.Email())
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render presentation template")
		}
	}
}

// PresentationSubmissionHandler asks the generation service for a deck
// using the signed-in user's access token and shows the download link.
func (s *Server) PresentationSubmissionHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("presentation.html")
	if err != nil {
		panic("Failed to parse presentation template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		rec := s.sessionStore(w, r).Load(r.Context())
		if !rec.HasCredentials() {
			guard.Redirect(w, r, RouteSignIn)
			return
		}
		data := s.presentationData(r, rec.Email())
		data.Form.Grade, _ = strconv.Atoi(r.FormValue("grade"))
		data.Form.Subject = r.FormValue("subject")
		data.Form.Topic = r.FormValue("topic")
		data.Form.Language = r.FormValue("language")
		data.Form.Pages, _ = strconv.Atoi(r.FormValue("pages"))

		status := http.StatusOK
		result, err := s.generator.Generate(r.Context(), oauth2.StaticTokenSource(rec.Token()), data.Form)
		switch {
		case err == nil:
			data.Result = result
		case errors.Is(err, errors.ErrInvalidRequest):
			status = http.StatusUnprocessableEntity
			data.Error = err.Error()
		default:
			log.Err(err).Msg("Presentation generation failed")
			status = http.StatusBadGateway
			data.Error = generationMessage(err)
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(status)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render presentation template")
		}
	}
}

func (s *Server) presentationData(r *http.Request, email string) PageData {
	data := s.pageData(r, email)
	data.WatchSession = true
	data.Classes = classes.All()
	data.Languages = Languages
	data.Form = presentation.Request{Language: Languages[0], Pages: 5}
	if data.Class != nil {
		data.Form.Grade = data.Class.Grade
	}
	return data
}

func generationMessage(err error) string {
	var genErr *presentation.Error
	if errors.As(err, &genErr) && genErr.Detail != "" {
		return genErr.Detail
	}
	return "Failed to generate presentation. Please try again."
}
