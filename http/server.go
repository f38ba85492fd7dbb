package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/paulvitic/hotel-booking/ddd"
)

const shutdownTimeout = 5 * time.Second

// Context is a bounded context served under its own path prefix.
type Context interface {
	Name() string
	Endpoints() []Endpoint
}

// Server represents an HTTP server using Gorilla Mux
type Server struct {
	router      *mux.Router
	srv         *http.Server
	host        string
	port        int
	contexts    []Context
	middlewares []mux.MiddlewareFunc
	logger      *ddd.Logger
	bind        sync.Once
}

func NewServer(host string, port int, logger *ddd.Logger) *Server {
	return &Server{
		router:   mux.NewRouter(),
		host:     host,
		port:     port,
		contexts: make([]Context, 0),
		logger:   logger,
	}
}

// WithContexts registers contexts with the server
func (s *Server) WithContexts(contexts ...Context) *Server {
	s.contexts = append(s.contexts, contexts...)
	return s
}

// Use adds middleware applied to every route.
func (s *Server) Use(middlewares ...mux.MiddlewareFunc) *Server {
	s.middlewares = append(s.middlewares, middlewares...)
	return s
}

// Handler binds the routes on first use and returns the router.
func (s *Server) Handler() http.Handler {
	s.bind.Do(func() {
		s.router.Use(s.middlewares...)
		s.registerHealthCheckEndpoint()
		for _, ctx := range s.contexts {
			s.registerContextEndpoints(ctx)
		}
	})
	return s.router
}

func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("starting server on %s", s.Addr())
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errs
}

func (s *Server) registerHealthCheckEndpoint() {
	s.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Status: UP")
	}).Methods("GET")
	s.logger.Info("registered health check endpoint at /")
}

func (s *Server) registerContextEndpoints(ctx Context) {
	contextRouter := s.router.PathPrefix("/" + ctx.Name()).Subrouter()
	for _, endpoint := range ctx.Endpoints() {
		BindEndpoint(endpoint, contextRouter, s.logger)
	}
	s.logger.Info("registered %d endpoints in context %s", len(ctx.Endpoints()), ctx.Name())
}

// Router returns the server's router
func (s *Server) Router() *mux.Router {
	return s.router
}
