// Package api serves question selection and feedback over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cpacc-prep/studybank/internal/bank"
	"github.com/cpacc-prep/studybank/internal/feedback"
	"github.com/cpacc-prep/studybank/internal/question"
	"github.com/cpacc-prep/studybank/internal/topics"
)

// HealthChecker is implemented by the database and cache wrappers.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the collaborators the handlers use.
type Deps struct {
	Selector       *bank.Selector
	Topics         topics.Map
	Feedback       feedback.Store
	Shuffler       question.Shuffler
	Checks         map[string]HealthChecker
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	deps      Deps
	validator *feedback.Validator
	log       *slog.Logger
	router    *chi.Mux
}

// NewServer creates the API server.
func NewServer(d Deps) *Server {
	if d.Shuffler == nil {
		d.Shuffler = question.DefaultShuffler
	}
	if d.Feedback == nil {
		d.Feedback = feedback.NewMemoryStore()
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		deps:      d,
		validator: feedback.NewValidator(),
		log:       log,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", s.handleQuestions)
		r.Get("/topics", s.handleTopics)
		r.Post("/feedback", s.handleFeedback)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
