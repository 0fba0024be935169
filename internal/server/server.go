// Package server exposes the layout engine, the compact/render pipeline and
// the layout store over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dear23/gridlayout/pkg/engine"
	gerrors "github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/pipeline"
	"github.com/dear23/gridlayout/pkg/responsive"
	"github.com/dear23/gridlayout/pkg/store"
)

const (
	// DefaultAddr is the listen address used when none is set.
	DefaultAddr = ":8080"

	// DefaultRequestTimeout bounds every request.
	DefaultRequestTimeout = 30 * time.Second

	// shutdownTimeout bounds the graceful shutdown after Start's context ends.
	shutdownTimeout = 10 * time.Second

	// maxBodyBytes limits request bodies.
	maxBodyBytes = 4 << 20
)

// Options configures a Server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration

	// Engine is the base configuration for move and resize requests.
	// Requests may override the column count and the compactor.
	Engine engine.Options

	Breakpoints responsive.Breakpoints
	Cols        responsive.Cols

	// Store backs the /v1/spaces routes. Runner caches compact and render
	// results. Both default to in-memory instances.
	Store  *store.Store
	Runner *pipeline.Runner

	Logger *log.Logger
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() error {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.Breakpoints == nil {
		o.Breakpoints = responsive.DefaultBreakpoints
	}
	if o.Cols == nil {
		o.Cols = responsive.DefaultCols
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Runner == nil {
		o.Runner = pipeline.NewRunner(nil, nil, o.Logger)
	}
	if o.Store == nil {
		s, err := store.New(store.Options{Logger: o.Logger})
		if err != nil {
			return err
		}
		o.Store = s
	}
	o.Engine.SetDefaults()
	return nil
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.RequestTimeout < 0 {
		return gerrors.New(gerrors.ErrCodeInvalidConfig, "request timeout must not be negative")
	}
	if err := o.Engine.Validate(); err != nil {
		return err
	}
	return responsive.Validate(o.Breakpoints, o.Cols)
}

// Server is the gridlayout HTTP API.
type Server struct {
	opts    Options
	router  chi.Router
	logger  *log.Logger
	runner  *pipeline.Runner
	store   *store.Store
	started chan struct{}
	addr    net.Addr
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if err := opts.SetDefaults(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		opts:    opts,
		logger:  opts.Logger,
		runner:  opts.Runner,
		store:   opts.Store,
		started: make(chan struct{}),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))
	r.Use(httpHooks)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/compact", s.handleCompact)
		r.Post("/render", s.handleRender)
		r.Post("/move", s.handleMove)
		r.Post("/resize", s.handleResize)
		r.Get("/breakpoint", s.handleBreakpoint)

		r.Route("/spaces/{space}/layouts", func(r chi.Router) {
			r.Get("/", s.handleGetLayouts)
			r.Delete("/", s.handleResetLayouts)
			r.Get("/{breakpoint}", s.handleGetLayout)
			r.Put("/{breakpoint}", s.handlePutLayout)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, gerrors.New(gerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code:  string(gerrors.ErrCodeInvalidInput),
			Error: "method " + r.Method + " not allowed",
		})
	})
	return r
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "listen on %s", s.opts.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.addr = ln.Addr()
	close(s.started)
	s.logger.Info("server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "shutdown")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Addr blocks until the server is listening and returns its address.
func (s *Server) Addr() net.Addr {
	<-s.started
	return s.addr
}
