// Package server exposes subscriptions, team discovery, fixture previews and
// the check trigger over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/metrics"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
	"github.com/amfb-notifier/amfb-notifier/internal/scraper"
	"github.com/amfb-notifier/amfb-notifier/internal/storage"
	"github.com/amfb-notifier/amfb-notifier/internal/tracker"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 6 * time.Minute
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 64 << 10
)

// Source provides fixtures and team names from the schedule page.
type Source interface {
	Fixtures(ctx context.Context, teams []string) scraper.Result
	DiscoverTeams(ctx context.Context) []string
}

// Runner performs one check.
type Runner interface {
	Run(ctx context.Context) (tracker.RunResult, error)
}

// Deps are the collaborators of a Server. Confirmer and Metrics may be nil.
type Deps struct {
	Subscriptions storage.SubscriptionStore
	Source        Source
	Runner        Runner
	Confirmer     notify.Confirmer
	Metrics       *metrics.Recorder
	Logger        *logger.Logger
	// CronSecret, when set, must be presented as a bearer token on /api/cron.
	CronSecret string
	Now        func() time.Time
}

type Server struct {
	deps Deps
	log  *logger.Logger
	mux  *http.ServeMux
}

// New builds the routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{
		deps: deps,
		log:  deps.Logger.With(logger.Fields{"component": "server"}),
		mux:  http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/subscribe", s.handleSubscribe)
	s.mux.HandleFunc("POST /api/unsubscribe", s.handleUnsubscribe)
	s.mux.HandleFunc("GET /api/teams", s.handleTeams)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("POST /api/fixtures-preview", s.handlePreview)
	s.mux.HandleFunc("GET /api/cron", s.handleCron)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if deps.Metrics != nil {
		s.mux.Handle("GET /metrics", deps.Metrics.Handler())
	}
	return s
}

// Handler returns the routes wrapped with request logging and metrics.
func (s *Server) Handler() http.Handler {
	return loggingMiddleware(s.log, s.deps.Metrics, s.mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("shutdown complete", nil)
	return nil
}
