// Package api provides the HTTP API server for sohayok.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sohayok/sohayok/internal/core"
	"github.com/sohayok/sohayok/internal/dispatch"
	"github.com/sohayok/sohayok/internal/roles"
	"github.com/sohayok/sohayok/internal/school"
	"github.com/sohayok/sohayok/internal/storage"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	dispatcher *dispatch.Dispatcher
	school     *school.Service
	eventHub   *EventHub

	personStore   *storage.PersonStore
	exchangeStore *storage.ExchangeStore
	settingsStore *storage.SettingsStore

	defaultLanguage core.Language
}

// Config for the server
type Config struct {
	Host            string
	Port            int
	Dispatcher      *dispatch.Dispatcher
	School          *school.Service
	PersonStore     *storage.PersonStore
	ExchangeStore   *storage.ExchangeStore
	SettingsStore   *storage.SettingsStore
	DefaultLanguage core.Language
}

// New creates a new API server
func New(cfg Config) *Server {
	lang := cfg.DefaultLanguage
	if !lang.Valid() {
		lang = core.LangBangla
	}

	s := &Server{
		dispatcher:      cfg.Dispatcher,
		school:          cfg.School,
		personStore:     cfg.PersonStore,
		exchangeStore:   cfg.ExchangeStore,
		settingsStore:   cfg.SettingsStore,
		eventHub:        NewEventHub(),
		defaultLanguage: lang,
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRouter configures all routes
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.eventHub.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/exchanges", s.handleGetExchanges)

		r.Get("/people", s.handleGetPeople)
		r.Post("/people", s.handleCreatePerson)
		r.Put("/people/{name}/role", s.handleSetRole)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings/{key}", s.handleSetSetting)

		r.Route("/school", func(r chi.Router) {
			r.Get("/status", s.handleSchoolStatus)
			r.Post("/students", s.handleRegisterStudent)
			r.Post("/attendance", s.handleRecordAttendance)
			r.Get("/reports/attendance", s.handleAttendanceReport)
		})
	})

	s.router = r
}

// Start runs the server. It blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	go s.eventHub.Run()
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.eventHub.Close()
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Caller   string `json:"caller,omitempty"`
}

type chatResponse struct {
	Response string        `json:"response"`
	Language core.Language `json:"language"`
}

// handleChat always answers 200 with a response body; dispatch failures are
// already converted to localized apologies downstream.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	lang := core.Language(req.Language)
	if !lang.Valid() {
		lang = s.defaultLanguage
	}

	response := s.dispatcher.Process(r.Context(), req.Text, lang, req.Caller)

	s.eventHub.Publish("chat", map[string]string{
		"caller":   req.Caller,
		"text":     req.Text,
		"response": response,
	})

	s.respondJSON(w, http.StatusOK, chatResponse{Response: response, Language: lang})
}

func (s *Server) handleGetExchanges(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}

	var (
		exchanges []*core.Exchange
		err       error
	)
	if caller := r.URL.Query().Get("caller"); caller != "" {
		exchanges, err = s.exchangeStore.RecentByCaller(caller, limit)
	} else {
		exchanges, err = s.exchangeStore.Recent(limit)
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, exchanges)
}

func (s *Server) handleGetPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.personStore.List()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, people)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var p core.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if p.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.personStore.Create(&p); err != nil {
		if errors.Is(err, core.ErrPersonExists) {
			s.respondError(w, http.StatusConflict, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Role core.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := s.personStore.SetRole(name, body.Role); err != nil {
		if errors.Is(err, core.ErrPersonNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"name": name, "role": string(body.Role)})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsStore.All()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

// handleSetSetting writes one key. Changing system settings needs the
// system_control capability, so only the principal and the admin may call it.
func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !roles.Allowed(s.callerRole(req.Caller), core.CapSystemControl) {
		s.respondError(w, http.StatusForbidden, core.ErrPermissionDenied.Error())
		return
	}

	key := chi.URLParam(r, "key")
	if err := s.settingsStore.Set(key, req.Value); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

func (s *Server) handleSchoolStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.school.SchoolStatus()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

// callerRole resolves the caller named in the request to a role. Unknown or
// missing callers act as friends, which the capability table then denies.
func (s *Server) callerRole(caller string) core.Role {
	if caller == "" {
		return core.RoleFriend
	}
	profile, err := s.personStore.GetByName(caller)
	if err != nil || profile == nil {
		return core.RoleFriend
	}
	return profile.Role
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string       `json:"caller"`
		Student core.Student `json:"student"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := s.school.RegisterStudent(s.callerRole(req.Caller), &req.Student)
	switch {
	case errors.Is(err, core.ErrPermissionDenied):
		s.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrMissingRequired):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrStudentExists):
		s.respondError(w, http.StatusConflict, err.Error())
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		s.respondJSON(w, http.StatusCreated, req.Student)
	}
}

func (s *Server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string                `json:"caller"`
		StudentID string                `json:"student_id"`
		Status    core.AttendanceStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := s.school.RecordAttendance(s.callerRole(req.Caller), req.StudentID, req.Status)
	switch {
	case errors.Is(err, core.ErrPermissionDenied):
		s.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrStudentNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidAttendance):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		s.respondJSON(w, http.StatusOK, map[string]string{"student_id": req.StudentID, "status": string(req.Status)})
	}
}

func (s *Server) handleAttendanceReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	report, err := s.school.AttendanceReport(s.callerRole(q.Get("caller")), q.Get("date"), q.Get("class"))
	switch {
	case errors.Is(err, core.ErrPermissionDenied):
		s.respondError(w, http.StatusForbidden, err.Error())
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		s.respondJSON(w, http.StatusOK, report)
	}
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
