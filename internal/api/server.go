// Package api serves the Wordiz HTTP API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/wordiz/internal/auth"
	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Options configures the router.
type Options struct {
	Issuer      *auth.Issuer
	CORSOrigins []string
	Logger      *slog.Logger
	Timeout     time.Duration
}

// Server routes API requests to a provision.Local.
type Server struct {
	svc    *provision.Local
	log    *slog.Logger
	router chi.Router
}

// New builds the HTTP handler.
func New(svc *provision.Local, opts Options) *Server {
	if opts.Issuer == nil {
		opts.Issuer = auth.NewIssuer("", 0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	s := &Server{svc: svc, log: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(opts.Logger), middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))
	// cors treats an empty origin list as "*", so no origins means no CORS.
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/config", func(r chi.Router) {
			r.Get("/languages", s.languages)
			r.Get("/domains", s.domains)
			r.Get("/difficulties", s.difficulties)
			r.Get("/session-types", s.sessionTypes)
		})
		r.Group(func(r chi.Router) {
			r.Use(opts.Issuer.Middleware)
			r.Post("/sessions/config", s.saveConfig)
			r.Post("/sessions/start", s.startSession)
			r.Get("/sessions", s.listSessions)
			r.Get("/sessions/{id}", s.getSession)
			r.Post("/sessions/{id}/submit", s.submitSession)
			r.Get("/stats", s.stats)
		})
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) languages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.svc.Languages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, langs)
}

func (s *Server) domains(w http.ResponseWriter, r *http.Request) {
	domains, err := s.svc.Domains(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

type difficultyInfo struct {
	Code      vocab.Difficulty `json:"code"`
	Name      string           `json:"name"`
	WordCount int              `json:"word_count"`
}

func (s *Server) difficulties(w http.ResponseWriter, r *http.Request) {
	out := make([]difficultyInfo, 0, len(vocab.AllDifficulties))
	for _, d := range vocab.AllDifficulties {
		out = append(out, difficultyInfo{Code: d, Name: d.Label(), WordCount: d.WordCount()})
	}
	writeJSON(w, http.StatusOK, out)
}

type sessionTypeInfo struct {
	Code vocab.SessionType `json:"code"`
	Name string            `json:"name"`
}

func (s *Server) sessionTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]sessionTypeInfo, 0, len(vocab.AllSessionTypes))
	for _, t := range vocab.AllSessionTypes {
		out = append(out, sessionTypeInfo{Code: t, Name: t.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) saveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg provision.Config
	if !decode(w, r, &cfg) {
		return
	}
	cfg.ConfigID = ""
	out, err := s.svc.SaveConfig(r.Context(), cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var cfg provision.Config
	if !decode(w, r, &cfg) {
		return
	}
	p, err := s.svc.Start(r.Context(), cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("session started",
		"session_id", p.SessionID,
		"learner", auth.LearnerFrom(r.Context()),
		"items", len(p.Items))
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	list, err := s.svc.History(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) submitSession(w http.ResponseWriter, r *http.Request) {
	var results []session.Result
	if !decode(w, r, &results) {
		return
	}
	id := chi.URLParam(r, "id")
	receipt, err := s.svc.Submit(r.Context(), id, results)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("session submitted",
		"session_id", id,
		"learner", auth.LearnerFrom(r.Context()),
		"score", receipt.Score)
	writeJSON(w, http.StatusOK, receipt)
}

// fail maps err to a status and writes the error envelope. Server errors
// are logged and their detail withheld.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := provision.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// requestLogger logs one structured line per request.
func requestLogger(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
