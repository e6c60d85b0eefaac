// Package server exposes forecast requests over http: a json payload, the rendered html
// chart and the csv export.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/aqi"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const (
	DefaultShutdownTimeout = 10 * time.Second
	RequestIDHeader        = "X-Request-ID"
)

// Forecaster runs a single forecast request
type Forecaster interface {
	Run(ctx context.Context, req aqi.Request) (*aqi.Presentation, error)
}

var _ Forecaster = (*aqi.Pipeline)(nil)

// ReadyFunc reports whether the shared resources are loaded
type ReadyFunc func(ctx context.Context) error

type Options struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// DefaultDays and ShowComponents apply when a request omits them
	DefaultDays    int
	ShowComponents bool

	// AccessLog receives combined log format lines, nil disables access logging
	AccessLog io.Writer
}

type Server struct {
	forecaster Forecaster
	ready      ReadyFunc
	opt        Options
	router     *mux.Router
	logger     *slog.Logger
}

func New(f Forecaster, ready ReadyFunc, opt Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opt.DefaultDays == 0 {
		opt.DefaultDays = aqi.DefaultForecastDays
	}
	if opt.ShutdownTimeout == 0 {
		opt.ShutdownTimeout = DefaultShutdownTimeout
	}
	s := &Server{
		forecaster: f,
		ready:      ready,
		opt:        opt,
		router:     mux.NewRouter(),
		logger:     logger.With("component", "server"),
	}
	s.RegisterRoutes()
	return s
}

func (s *Server) RegisterRoutes() {
	s.router.Use(s.requestID)

	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", s.readyz).Methods(http.MethodGet)

	// expects ?days={1..60}&components={bool}
	s.router.HandleFunc("/api/forecast", s.forecastJSON).Methods(http.MethodGet)
	s.router.HandleFunc("/forecast", s.forecastHTML).Methods(http.MethodGet)
	s.router.HandleFunc("/forecast/export", s.forecastExport).Methods(http.MethodGet)
}

// Handler returns the router wrapped with panic recovery and access logging
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(false),
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
	)(h)
	if s.opt.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(s.opt.AccessLog, h)
	}
	return h
}

// Run serves until the context is cancelled and then drains in-flight requests for up
// to the shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opt.Address)
	if err != nil {
		return fmt.Errorf("unable to listen on %s, %w", s.opt.Address, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opt.ReadTimeout,
		WriteTimeout: s.opt.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to serve, %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.opt.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opt.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shutdown gracefully, %w", err)
	}
	return nil
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("recovered from panic", "panic", fmt.Sprint(v...))
}
