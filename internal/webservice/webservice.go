// Package webservice serves the mock search/translate endpoints and the
// offline cache API consumed by the UI.
package webservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/mockapi"
	"github.com/MrSnakeDoc/gompa/internal/offline"
	"github.com/MrSnakeDoc/gompa/internal/webservice/handlers"
	"github.com/MrSnakeDoc/gompa/internal/webservice/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	handler    http.Handler

	// ctx interrupts everything, including background populates.
	// It is the parent of gracefulCtx.
	ctx    context.Context
	cancel context.CancelFunc

	gracefulCtx    context.Context
	gracefulCancel context.CancelFunc
}

type StaticConfig struct {
	ListenHost     string
	ListenPort     int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64

	// Registry receives the HTTP and cache metrics served on /metrics.
	// A private registry is created when nil.
	Registry *prometheus.Registry
}

func New(ctx context.Context, m *offline.Manager, svc *mockapi.Service, sc StaticConfig) *Server {
	ctx, cancel := context.WithCancel(ctx)
	gCtx, gCancel := context.WithCancel(ctx)

	s := &Server{
		ctx:            ctx,
		cancel:         cancel,
		gracefulCtx:    gCtx,
		gracefulCancel: gCancel,
	}

	mock := handlers.NewMock(svc, sc.MaxBodyBytes)
	off := handlers.NewOffline(ctx, m)

	reg := sc.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics.RegisterCache(reg, m, time.Now)
	mw := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("POST /api/search", mw.Monitor("search", http.HandlerFunc(mock.Search)))
	mux.Handle("POST /api/translate", mw.Monitor("translate", http.HandlerFunc(mock.Translate)))
	mux.Handle("GET /api/offline/status", mw.Monitor("offline_status", http.HandlerFunc(off.Status)))
	mux.Handle("POST /api/offline/populate", mw.Monitor("offline_populate", http.HandlerFunc(off.Populate)))
	mux.Handle("POST /api/offline/download/{label}", mw.Monitor("offline_download", http.HandlerFunc(off.Download)))
	mux.Handle("GET /api/offline/{category}", mw.Monitor("offline_category", http.HandlerFunc(off.Category)))
	mux.Handle("GET /version", mw.Monitor("version", http.HandlerFunc(handlers.VersionHandler)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	var h http.Handler = mux
	if sc.RequestTimeout > 0 {
		h = http.TimeoutHandler(mux, sc.RequestTimeout, "")
	}
	s.handler = handlers.WithRequestID(h)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(sc.ListenHost, strconv.Itoa(sc.ListenPort)),
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		Handler:      s.handler,
	}
	return s
}

// Handler returns the root handler, for embedding and tests.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) Addr() string { return s.httpServer.Addr }

// Run listens until Quit is called or the server fails.
func (s *Server) Run() error {
	logger.Infow("starting server", "addr", s.httpServer.Addr)

	select {
	case <-s.gracefulCtx.Done():
		return errors.New("server is already shutting down")
	default:
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-s.gracefulCtx.Done():
		logger.Infow("graceful shutdown initiated")
		if err := s.httpServer.Shutdown(s.ctx); err != nil {
			logger.Errorw("graceful shutdown failed", "err", err)
			return err
		}
		logger.Infow("server shut down gracefully")
		s.cancel()
		return nil

	case err := <-serverErr:
		s.cancel()
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

// Quit stops the server. With force, open connections are dropped.
func (s *Server) Quit(force bool) {
	if force {
		_ = s.httpServer.Close()
		s.cancel()
	} else {
		s.gracefulCancel()
	}
	logger.Infow("server quit", "force", force)
}
