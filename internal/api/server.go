// Package api serves the engine's read models over HTTP as JSON, plus a
// sync trigger and the Prometheus metrics endpoint.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/logger"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	engine *engine.Engine
	router *mux.Router
	log    *log.Logger
}

func NewServer(e *engine.Engine) *Server {
	s := &Server{
		engine: e,
		log:    logger.Component("api"),
	}
	s.router = s.routerSetup()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/activities", s.handleActivities).Methods("GET").Name("list-activities")
	v1.HandleFunc("/progress", s.handleProgress).Methods("GET").Name("progress")
	v1.HandleFunc("/progress/{category}", s.handleCategoryProgress).Methods("GET").Name("category-progress")
	v1.HandleFunc("/badges", s.handleBadges).Methods("GET").Name("badges")
	v1.HandleFunc("/summary/{period}", s.handleSummary).Methods("GET").Name("summary")
	v1.HandleFunc("/series/{period}", s.handleSeries).Methods("GET").Name("series")
	v1.HandleFunc("/home", s.handleHome).Methods("GET").Name("home")
	v1.HandleFunc("/sync", s.handleSync).Methods("POST").Name("sync")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET").Name("metrics")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.Use(s.panicRecovery)
	r.Use(s.logRequest)
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", "addr", addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("Server shut down")
	return nil
}
