package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"imgsel/internal/app"
	"imgsel/internal/domain"
	"imgsel/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the service operations as a JSON API with a websocket progress stream.
type Server struct {
	svc    app.Service
	hub    *Hub
	logger logging.Logger
	router *mux.Router
}

func New(svc app.Service, logger logging.Logger) *Server {
	s := &Server{
		svc:    svc,
		hub:    NewHub(logger),
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scan", s.handleScan).Methods(http.MethodPost)
	api.HandleFunc("/metadata", s.handleMetadata).Methods(http.MethodGet)
	api.HandleFunc("/batch/copy", s.handleBatch(domain.OpCopy)).Methods(http.MethodPost)
	api.HandleFunc("/batch/move", s.handleBatch(domain.OpMove)).Methods(http.MethodPost)
	api.HandleFunc("/directories", s.handleCreateDirectory).Methods(http.MethodPost)
	api.HandleFunc("/ws", s.hub.ServeWS)
	api.Use(s.logRequests, s.guardRequests)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Server listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Infof("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
