// Package server provides the operator UI over the digest pipeline.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Aravinnthram/AINow/internal/config"
	"github.com/Aravinnthram/AINow/internal/domain"
	"github.com/Aravinnthram/AINow/internal/infrastructure/mail"
	"github.com/Aravinnthram/AINow/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server exposes the send form, preview and scheduler controls.
type Server struct {
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	defaults  config.DigestConfig
	router    chi.Router
	templates *template.Template
	logger    *slog.Logger
}

type pageData struct {
	Defaults config.DigestConfig
	Armed    bool
	Schedule domain.ScheduleSpec
	Flash    string
	Error    string
	Subject  string
	Preview  string
	Articles int
}

// New creates the HTTP surface around the pipeline and scheduler.
func New(pipeline *usecase.Pipeline, scheduler *usecase.Scheduler, defaults config.DigestConfig, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		pipeline:  pipeline,
		scheduler: scheduler,
		defaults:  defaults,
		templates: tmpl,
		logger:    logger,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/send", s.handleSend)
	r.Post("/preview", s.handlePreview)
	r.Post("/scheduler/start", s.handleSchedulerStart)
	r.Post("/scheduler/stop", s.handleSchedulerStop)
	r.Get("/healthz", s.handleHealth)

	s.router = r
}

// Handler returns the assembled router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.page())
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	req, showPreview, err := s.parseRequest(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Recipients) == 0 {
		s.renderError(w, http.StatusBadRequest, "Please enter at least one recipient email.")
		return
	}

	result, err := s.pipeline.Run(r.Context(), req)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data := s.page()
	data.Flash = "✅ Email sent successfully to: " + strings.Join(req.Recipients, ", ")
	data.Articles = result.Articles
	if showPreview {
		data.Subject = result.Digest.Subject
		data.Preview = result.Digest.Body
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, _, err := s.parseRequest(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.pipeline.Preview(r.Context(), req)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data := s.page()
	data.Flash = fmt.Sprintf("Fetched %d AI-related articles.", result.Articles)
	data.Articles = result.Articles
	data.Subject = result.Digest.Subject
	data.Preview = result.Digest.Body
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleSchedulerStart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid form.")
		return
	}

	spec := domain.ScheduleSpec{
		Recipients: mail.NormalizeRecipients(r.FormValue("recipients")),
		Hour:       formInt(r, "hour", 12),
		Minute:     formInt(r, "minute", 0),
		MaxItems:   clamp(formInt(r, "max_items", s.defaults.MaxItems), 5, 30),
	}
	if err := s.scheduler.Arm(spec); err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.page()
	data.Flash = "📅 Scheduler started! You will receive the daily AI digest at " + spec.At()
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleSchedulerStop(w http.ResponseWriter, r *http.Request) {
	if err := s.scheduler.Disarm(); err != nil {
		s.renderError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data := s.page()
	data.Flash = "Scheduler stopped."
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) parseRequest(r *http.Request) (usecase.Request, bool, error) {
	if err := r.ParseForm(); err != nil {
		return usecase.Request{}, false, fmt.Errorf("invalid form: %w", err)
	}

	req := usecase.Request{
		Recipients: mail.NormalizeRecipients(r.FormValue("recipients")),
		MaxItems:   clamp(formInt(r, "max_items", s.defaults.MaxItems), 5, 30),
		UseRemote:  r.FormValue("use_groq") != "",
	}
	return req, r.FormValue("show_preview") != "", nil
}

func (s *Server) page() pageData {
	spec, armed := s.scheduler.Status()
	return pageData{Defaults: s.defaults, Armed: armed, Schedule: spec}
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	data := s.page()
	data.Error = message
	s.render(w, status, data)
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render template", "error", err)
	}
}

func formInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		return fallback
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
