// Package web serves the prediction form, the document pages and the JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/heartrisk-go/internal/application/session"
	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Deps are the collaborators of a Server.
type Deps struct {
	Sessions  *session.Store
	Predictor ports.Predictor
	Models    ports.ModelLister
	Config    domain.Config
	Logger    ports.Logger
}

// Server owns the router and the rendered templates.
type Server struct {
	deps      Deps
	router    chi.Router
	templates *template.Template
	docs      map[string]template.HTML
}

// NewServer parses templates, renders the markdown documents and builds the router.
func NewServer(deps Deps) (*Server, error) {
	funcMap := template.FuncMap{
		"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"svg": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	docs, err := renderDocs()
	if err != nil {
		return nil, err
	}

	s := &Server{
		deps:      deps,
		router:    chi.NewRouter(),
		templates: templates,
		docs:      docs,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
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
	s.router.Get("/guide", s.handleDoc("guide", "User guide"))
	s.router.Get("/about", s.handleDoc("about", "About"))
	s.router.Get("/disclaimer", s.handleDoc("disclaimer", "Disclaimer"))
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.deps.Config.Server.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		api.Get("/models", s.handleAPIModels)
		api.Post("/predict", s.handleAPIPredict)
		api.Get("/session", s.handleAPISession)
		api.Put("/session/fields/{field}", s.handleAPISetField)
		api.Put("/session/model", s.handleAPISetModel)
		api.Post("/session/models", s.handleAPIReloadModels)
		api.Post("/session/submit", s.handleAPISubmit)
		api.Post("/session/reset", s.handleAPIReset)
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: domain.DefaultReadHeaderTimeout,
		IdleTimeout:       domain.DefaultIdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.deps.Logger.Info("server starting", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.deps.Logger.Info("shutdown signal received", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.deps.Logger.Info("server stopped", nil)
	return err
}

// sessionFor returns the caller's session, issuing a cookie for new visitors.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	sess, _ := s.lookupSession(w, r)
	return sess
}

// lookupSession also reports whether the session was created by this request.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	var id string
	if c, err := r.Cookie(domain.SessionCookieName); err == nil {
		id = c.Value
	}
	sess, created := s.deps.Sessions.Get(r.Context(), id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     domain.SessionCookieName,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, created
}
