package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pfrederiksen/event-schedule/internal/export"
	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/storage"
)

// Loader builds a fresh Exporter from the schedule and config on disk
type Loader func() (*export.Exporter, error)

type snapshot struct {
	exp      *export.Exporter
	loadedAt time.Time
}

// Server serves the timetable, API and calendar exports
type Server struct {
	load  Loader
	store *storage.Storage
	log   *logger.Logger
	now   func() time.Time
	mux   *http.ServeMux
	tmpl  *template.Template

	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger used for requests and reloads
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer loads the schedule once and registers the routes. store may be nil, which
// disables the favorites API.
func NewServer(load Loader, store *storage.Storage, opts ...Option) (*Server, error) {
	s := &Server{
		load:  load,
		store: store,
		now:   time.Now,
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Default()
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s.tmpl = tmpl

	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.registerRoutes()
	return s, nil
}

// Reload rebuilds the Exporter. On failure the previous snapshot keeps serving.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := s.now()
	exp, err := s.load()
	if err != nil {
		s.log.Error("schedule reload failed", nil, err)
		return fmt.Errorf("loading schedule: %w", err)
	}

	s.current.Store(&snapshot{exp: exp, loadedAt: s.now()})
	logger.IncrCounter("web.reloads")
	s.log.Info("schedule loaded", logger.Fields{
		"event":       exp.Config().Event.Name,
		"tracks":      len(exp.Tracks()),
		"duration_ms": s.now().Sub(start).Milliseconds(),
	})
	return nil
}

// Exporter returns the snapshot currently served
func (s *Server) Exporter() *export.Exporter {
	return s.current.Load().exp
}

// LoadedAt returns when the current snapshot was loaded
func (s *Server) LoadedAt() time.Time {
	return s.current.Load().loadedAt
}

// Handler returns the routes wrapped in request logging
func (s *Server) Handler() http.Handler {
	return requestLogger(s.log)(s.mux)
}

// Run serves on addr until ctx is cancelled. A non-empty reloadSpec is a cron expression
// ("*/15 * * * *", "@every 5m") on which the schedule is reloaded.
func (s *Server) Run(ctx context.Context, addr, reloadSpec string) error {
	if reloadSpec != "" {
		c := cron.New()
		if _, err := c.AddFunc(reloadSpec, func() { _ = s.Reload() }); err != nil {
			return fmt.Errorf("invalid reload schedule %q: %w", reloadSpec, err)
		}
		c.Start()
		defer c.Stop()
		s.log.Info("scheduled reloads enabled", logger.Fields{"schedule": reloadSpec})
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", logger.Fields{"listen": "http://" + addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down HTTP server", nil)
		return srv.Shutdown(shutdownCtx)
	}
}
