// Package server exposes the feed pipeline over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedscope/pkg/bluesky"
	"github.com/umputun/feedscope/pkg/curation"
	"github.com/umputun/feedscope/pkg/feed"
	"github.com/umputun/feedscope/pkg/prefs"
)

//go:generate moq -out mocks/feeder.go -pkg mocks -skip-ensure -fmt goimports . Feeder
//go:generate moq -out mocks/prefstore.go -pkg mocks -skip-ensure -fmt goimports . PrefStore

// Feeder assembles curated feed pages
type Feeder interface {
	GetPage(ctx context.Context, ses *curation.Session, uid string, params bluesky.FeedParams, limit int, prior *feed.Cursor) (feed.Page, error)
	GetLatest(ctx context.Context, params bluesky.FeedParams) (string, error)
}

// PrefStore manages stored account preferences
type PrefStore interface {
	Get(ctx context.Context, did string) (prefs.Account, error)
	Upsert(ctx context.Context, account prefs.Account) error
	SetTempMute(ctx context.Context, did, actor string, until time.Time) error
	DeleteTempMute(ctx context.Context, did, actor string) error
}

// Config holds server settings
type Config struct {
	Listen  string
	Timeout time.Duration
	Version string
	Debug   bool
}

// Server represents HTTP server instance
type Server struct {
	feeder   Feeder
	prefs    PrefStore
	sessions *curation.Store
	config   Config

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// New initializes a new server instance
func New(feeder Feeder, prefStore PrefStore, sessions *curation.Store, cfg Config) *Server {
	s := &Server{
		feeder:   feeder,
		prefs:    prefStore,
		sessions: sessions,
		config:   cfg,
		router:   routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting server on %s", s.config.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.router,
		ReadTimeout:  s.config.Timeout,
		WriteTimeout: s.config.Timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedscope", "umputun", s.config.Version))
	s.router.Use(rest.Ping)

	if s.config.Debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // 64K, feedback and prefs bodies are small
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("GET /feed", s.feedHandler)
		r.HandleFunc("GET /feed/latest", s.feedLatestHandler)

		r.HandleFunc("POST /sessions", s.createSessionHandler)
		r.HandleFunc("DELETE /sessions/{id}", s.deleteSessionHandler)
		r.HandleFunc("POST /sessions/{id}/feedback", s.feedbackHandler)

		r.HandleFunc("GET /prefs/{did}", s.getPrefsHandler)
		r.HandleFunc("PUT /prefs/{did}", s.putPrefsHandler)
		r.HandleFunc("POST /prefs/{did}/mutes", s.setTempMuteHandler)
		r.HandleFunc("DELETE /prefs/{did}/mutes/{actor}", s.deleteTempMuteHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.config.Version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
