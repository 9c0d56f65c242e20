// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/ssssjaj14-ux/shakeel/internal/assistant"
)

// setupMiddleware installs the middleware chain, outermost first.
func (s *Server) setupMiddleware() {
	s.echo.Use(
		recoverMiddleware(s.logger),
		requestIDMiddleware(),
		accessLogMiddleware(s.logger),
		securityHeadersMiddleware(),
		corsMiddleware(s.opts.CORSOrigins),
		middleware.BodyLimit(s.opts.BodyLimit),
	)
	if s.opts.RateLimitRPS > 0 {
		s.echo.Use(rateLimitMiddleware(s.opts.RateLimitRPS, s.opts.RateLimitBurst))
	}
}

// requestID returns the id assigned to the current request.
func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// ============================================================================
// Recovery
// ============================================================================

// recoverMiddleware turns handler panics into 500s and logs the stack.
func recoverMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
				"stack", string(stack),
			)
			return err
		},
	})
}

// ============================================================================
// Request ID
// ============================================================================

// requestIDMiddleware assigns each request a UUID (or keeps the caller's
// X-Request-Id) and puts it on the request context for pipeline logs.
func requestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(assistant.WithRequestID(req.Context(), id)))
		},
	})
}

// ============================================================================
// Access log
// ============================================================================

// accessLogMiddleware logs one structured record per request.
func accessLogMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}

// ============================================================================
// Security headers
// ============================================================================

// securityHeadersMiddleware sets the standard hardening headers. API
// responses are never cached.
func securityHeadersMiddleware() echo.MiddlewareFunc {
	secure := middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := secure(next)
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
			return h(c)
		}
	}
}

// ============================================================================
// CORS
// ============================================================================

// corsMiddleware allows the browser front end to call the API. An empty
// origin list allows any origin.
func corsMiddleware(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
		MaxAge:        600,
	})
}

// ============================================================================
// Rate limiting
// ============================================================================

// rateLimitMiddleware limits each client IP to rps requests per second with
// the given burst. Health checks are exempt.
func rateLimitMiddleware(rps float64, burst int) echo.MiddlewareFunc {
	if burst < 1 {
		burst = 1
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
