// Package web serves the local dashboard: an HTML page with the heatmaps and
// daily charts, a small JSON API over the record store, and /metrics.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/records"
)

// Store is what the dashboard needs from the record store.
type Store interface {
	All(ctx context.Context, kind records.Kind) ([]records.Record, error)
	Add(ctx context.Context, r records.Record) (string, error)
	Delete(ctx context.Context, kind records.Kind, id string) error
}

type Options struct {
	Location      *time.Location
	SummaryDays   int
	HeatmapMonths int
	Now           func() time.Time
}

type Server struct {
	store Store
	log   *slog.Logger
	opts  Options
}

func New(store Store, opts Options, log *slog.Logger) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.SummaryDays <= 0 {
		opts.SummaryDays = 7
	}
	if opts.HeatmapMonths <= 0 {
		opts.HeatmapMonths = 3
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		store: store,
		log:   log.With(slog.String("component", "dashboard")),
		opts:  opts,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.index)
	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/{kind}", func(r chi.Router) {
		r.Use(kindCtx)
		r.Get("/records", s.listRecords)
		r.Post("/records", s.createRecord)
		r.Delete("/records/{id}", s.deleteRecord)
		r.Get("/summary", s.summary)
		r.Get("/heatmap", s.heatmapJSON)
		r.Get("/heatmap.svg", s.heatmapSVG)
	})
	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", slog.String("addr", addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("dashboard shutting down")
	return srv.Shutdown(shutdownCtx)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
