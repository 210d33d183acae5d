// Package webapp serves the prediction form to browsers. Each browser gets its
// own form store and controller; form posts follow post/redirect/get.
package webapp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-scorecast"
	"github.com/goliatone/go-scorecast/pkg/render"
)

const (
	// ThemeCookie persists the selected theme variant.
	ThemeCookie = "scorecast_theme"
	// DefaultSessionTTL bounds how long an idle session is kept.
	DefaultSessionTTL = 30 * time.Minute

	rendererName = "html"
)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionTTL overrides the idle session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithDefaultVariant selects the theme variant used without a cookie.
func WithDefaultVariant(variant string) Option {
	return func(s *Server) {
		if variant != "" {
			s.variant = variant
		}
	}
}

// WithClock replaces time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server is the HTTP front end.
type Server struct {
	app      *scorecast.App
	router   *chi.Mux
	sessions *Sessions
	logger   *zap.Logger
	ttl      time.Duration
	variant  string
	now      func() time.Time
}

// New builds the router for app.
func New(app *scorecast.App, options ...Option) *Server {
	s := &Server{
		app:     app,
		router:  chi.NewRouter(),
		logger:  zap.NewNop(),
		ttl:     DefaultSessionTTL,
		variant: render.VariantDark,
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.sessions = newSessions(app, s.ttl, s.now, s.logger.Named("sessions"))
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/predict", s.handlePredict)
	s.router.Post("/reset", s.handleReset)
	s.router.Post("/theme", s.handleTheme)
	s.router.Get("/healthz", s.handleHealth)
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the session table.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// ListenAndServe serves on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
