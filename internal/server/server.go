// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ssssjaj14-ux/shakeel/internal/assistant"
	"github.com/ssssjaj14-ux/shakeel/internal/config"
	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	// MaxMessageBytes is the maximum size of one message's content.
	MaxMessageBytes = 100000

	// MaxMessageCount is the maximum number of messages in a request.
	MaxMessageCount = 100

	// MaxSpellCheckBytes is the maximum size of text sent to /api/spellcheck.
	MaxSpellCheckBytes = 100000

	// DefaultBodyLimit caps request bodies.
	DefaultBodyLimit = "1M"

	// Version is the API version reported by /health.
	Version = "1.0.0"
)

// ============================================================================
// SERVER STATS
// ============================================================================

// Stats counts requests by outcome. All fields are updated atomically.
type Stats struct {
	chat        atomic.Int64
	remote      atomic.Int64
	fallback    atomic.Int64
	image       atomic.Int64
	spellChecks atomic.Int64
	rejected    atomic.Int64
	startTime   time.Time
}

// NewStats creates a Stats starting now.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// RecordResult counts one answered chat request.
func (s *Stats) RecordResult(r model.CompletionResult) {
	s.chat.Add(1)
	switch {
	case r.HasImage():
		s.image.Add(1)
	case offline.IsFallback(r):
		s.fallback.Add(1)
	default:
		s.remote.Add(1)
	}
}

// RecordSpellCheck counts one spell check request.
func (s *Stats) RecordSpellCheck() {
	s.spellChecks.Add(1)
}

// RecordRejected counts one request refused by validation.
func (s *Stats) RecordRejected() {
	s.rejected.Add(1)
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	ChatRequests  int64     `json:"chat_requests"`
	Remote        int64     `json:"remote"`
	Fallback      int64     `json:"fallback"`
	Image         int64     `json:"image"`
	SpellChecks   int64     `json:"spellchecks"`
	Rejected      int64     `json:"rejected"`
	StartTime     time.Time `json:"start_time"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		ChatRequests:  s.chat.Load(),
		Remote:        s.remote.Load(),
		Fallback:      s.fallback.Load(),
		Image:         s.image.Load(),
		SpellChecks:   s.spellChecks.Load(),
		Rejected:      s.rejected.Load(),
		StartTime:     s.startTime,
		UptimeSeconds: int64(s.Uptime().Seconds()),
	}
}

// Uptime returns the time since the stats were created.
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures the HTTP layer.
type Options struct {
	Addr           string
	CORSOrigins    []string
	RateLimitRPS   float64 // per client IP; 0 disables
	RateLimitBurst int
	BodyLimit      string
}

// OptionsFromConfig maps the [server] config section.
func OptionsFromConfig(cfg config.ServerConfig) Options {
	return Options{
		Addr:           cfg.Addr,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		BodyLimit:      cfg.BodyLimit,
	}
}

// backend is what a request is served with. It is swapped as a whole.
type backend struct {
	svc             *assistant.Service
	defaultCategory model.ServiceCategory
}

// Server is the HTTP API server.
type Server struct {
	opts    Options
	echo    *echo.Echo
	backend atomic.Pointer[backend]
	stats   *Stats
	logger  *slog.Logger
}

// New creates a Server serving svc. Requests that name no service use
// defaultCategory.
func New(opts Options, svc *assistant.Service, defaultCategory model.ServiceCategory, logger *slog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = DefaultBodyLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		opts:   opts,
		stats:  NewStats(),
		logger: logger.With("component", "server"),
	}
	s.SetService(svc, defaultCategory)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = echo.ExtractIPDirect()
	e.HTTPErrorHandler = s.handleError
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 120 * time.Second
	e.Server.IdleTimeout = 120 * time.Second
	s.echo = e

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// SetService replaces the pipeline used by subsequent requests. Requests
// already in flight finish on the previous one.
func (s *Server) SetService(svc *assistant.Service, defaultCategory model.ServiceCategory) {
	if svc == nil {
		svc = assistant.New(nil, nil, assistant.DefaultOptions(), s.logger)
	}
	s.backend.Store(&backend{svc: svc, defaultCategory: defaultCategory.Resolve()})
}

// Service returns the pipeline currently in use.
func (s *Server) Service() *assistant.Service {
	return s.backend.Load().svc
}

// Stats returns the server's counters.
func (s *Server) Stats() *Stats {
	return s.stats
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/spellcheck", s.handleSpellCheck)
	api.GET("/services", s.handleServices)

	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/stats", s.handleStats)
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address and blocks until the server
// stops. A stop caused by Shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.opts.Addr, "version", Version)
	if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	snap := s.stats.Snapshot()
	s.logger.Info("server shutting down",
		"chat_requests", snap.ChatRequests,
		"fallback", snap.Fallback,
		"uptime", s.stats.Uptime().Round(time.Second).String(),
	)
	return s.echo.Shutdown(ctx)
}
