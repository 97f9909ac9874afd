package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/metrics"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

type Server struct {
	summary   *SummaryHandler
	config    *config.Config
	counters  *metrics.Counters
	logger    *logrus.Logger
	server    *http.Server
	startTime time.Time
}

type ServerOption func(*Server)

// NewServer creates the HTTP API around the summary service.
func NewServer(cfg *config.Config, svc summary.Service, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		counters:  metrics.Default,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.summary = NewSummaryHandler(svc, validation.NewValidator(), s.logger)
	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithCounters(counters *metrics.Counters) ServerOption {
	return func(s *Server) {
		s.counters = counters
	}
}

func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Routes returns the full handler tree with middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /summarize", s.summary.HandleSummarize)
	mux.HandleFunc("POST /translate", s.summary.HandleTranslate)
	mux.HandleFunc("GET /get_transcript", s.summary.HandleGetTranscript)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	return middleware.Chain(mux,
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.CORS(s.config.CORS),
		middleware.Timeout(s.config.RequestTimeout),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   s.config.Version,
		"uptime":    time.Since(s.startTime).String(),
	}

	if s.config.Debug {
		status["debug"] = true
		status["goroutines"] = runtime.NumGoroutine()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		status["memory"] = map[string]interface{}{
			"allocated": m.Alloc,
			"total":     m.TotalAlloc,
			"system":    m.Sys,
			"gc_cycles": m.NumGC,
		}
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.counters.Format()))
}
