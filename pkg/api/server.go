// Package api serves the catalog and viewer sessions over HTTP for thin viewer clients.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/docnav/pkg/catalog"
	"github.com/Sriram-PR/docnav/pkg/config"
	"github.com/Sriram-PR/docnav/pkg/models"
	"github.com/Sriram-PR/docnav/pkg/viewer"
)

// Catalog is the read side of the document catalog
type Catalog interface {
	Collections() []catalog.CollectionInfo
	Documents(category string) ([]models.DocumentRef, error)
	Entry(category, slug string) (models.DocumentEntry, error)
}

// Server is the HTTP API
type Server struct {
	appCfg     *config.AppConfig
	catalog    Catalog
	sessions   *viewer.Manager
	log        *logrus.Entry
	router     chi.Router
	httpServer *http.Server
}

// NewServer builds the router
func NewServer(appCfg *config.AppConfig, cat Catalog, sessions *viewer.Manager, log *logrus.Entry) *Server {
	s := &Server{
		appCfg:   appCfg,
		catalog:  cat,
		sessions: sessions,
		log:      log.WithField("component", "api"),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/docs", func(r chi.Router) {
		r.Get("/", s.handleListDocs)
		r.Get("/{category}/{slug}", s.handleGetDoc)
		r.Get("/{category}/{slug}/toc", s.handleGetTOC)
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/panel", s.handleSessionPanel)
			r.Post("/scroll", s.handleScroll)
			r.Post("/navigate", s.handleNavigate)
			r.Put("/selection", s.handleSetSelection)
			r.Delete("/selection", s.handleClearSelection)
			r.Get("/events", s.handleEvents)
		})
	})

	return r
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler { return s.router }

// requestLogger logs one line per request through logrus
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		entry := s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).Round(time.Microsecond),
			"request_id": middleware.GetReqID(r.Context()),
		})
		if ww.Status() >= http.StatusInternalServerError {
			entry.Warn("Request failed")
		} else {
			entry.Debug("Request served")
		}
	})
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srvCfg := s.appCfg.Server
	s.httpServer = &http.Server{
		Addr:              srvCfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       srvCfg.ReadTimeout,
		WriteTimeout:      srvCfg.WriteTimeout,
		IdleTimeout:       srvCfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on %s", srvCfg.ListenAddr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
