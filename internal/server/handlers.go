// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
	"github.com/ssssjaj14-ux/shakeel/internal/util"
)

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []model.Message `json:"messages"`
	Service  string          `json:"service"`
}

// SpellCheckRequest is the body of POST /api/spellcheck.
type SpellCheckRequest struct {
	Text string `json:"text"`
}

// SpellCheckResponse is the result of POST /api/spellcheck.
type SpellCheckResponse struct {
	Text string `json:"text"`
}

// ServiceInfo describes one selectable service category.
type ServiceInfo struct {
	model.CategoryInfo
	Model string `json:"model"`
}

// ServicesResponse is the result of GET /api/services.
type ServicesResponse struct {
	Services   []ServiceInfo `json:"services"`
	Default    string        `json:"default"`
	ImageModel string        `json:"image_model"`
}

// HealthResponse is the result of GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Offline       bool   `json:"offline"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ============================================================================
// VALIDATION
// ============================================================================

// validateMessages enforces the request limits on a conversation.
func validateMessages(messages []model.Message) error {
	if len(messages) == 0 {
		return errors.New("messages must not be empty")
	}
	if len(messages) > MaxMessageCount {
		return fmt.Errorf("too many messages: maximum is %d", MaxMessageCount)
	}
	for i, msg := range messages {
		if !msg.Role.IsCallerRole() {
			return fmt.Errorf("message %d: role must be user or assistant", i)
		}
		if len(msg.Content) > MaxMessageBytes {
			return fmt.Errorf("message %d exceeds maximum length of %d bytes", i, MaxMessageBytes)
		}
	}
	return nil
}

var errInvalidJSON = errors.New("invalid JSON body")

// decodeBody decodes a JSON request body. Body limit errors pass through
// untouched so they keep their 413 status; anything else is errInvalidJSON.
func decodeBody(c echo.Context, v any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return errInvalidJSON
	}
	return nil
}

// reject writes a 400 and counts it.
func (s *Server) reject(c echo.Context, err error) error {
	s.stats.RecordRejected()
	s.logger.Debug("request rejected",
		"path", c.Path(),
		"request_id", requestID(c),
		"error", err.Error(),
	)
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), RequestID: requestID(c)})
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleChat handles POST /api/chat.
func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := decodeBody(c, &req); err != nil {
		if errors.Is(err, errInvalidJSON) {
			return s.reject(c, err)
		}
		return err
	}
	if err := validateMessages(req.Messages); err != nil {
		return s.reject(c, err)
	}

	b := s.backend.Load()
	category := s.category(b, req.Service)

	result := b.svc.SendMessage(c.Request().Context(), req.Messages, category)
	s.stats.RecordResult(result)

	latest, _ := model.Latest(req.Messages)
	s.logger.Info("chat",
		"request_id", requestID(c),
		"service", string(category),
		"model", result.ModelUsed,
		"fallback", offline.IsFallback(result),
		"prompt", util.TruncateRunes(util.OneLine(latest.Content), 60),
	)
	return c.JSON(http.StatusOK, result)
}

// category maps the request's service name. Empty means the server
// default; unknown names are passed through and degrade to auto routing.
func (s *Server) category(b *backend, name string) model.ServiceCategory {
	if name == "" {
		return b.defaultCategory
	}
	if cat, ok := model.ParseCategory(name); ok {
		return cat
	}
	return model.ServiceCategory(name)
}

// handleSpellCheck handles POST /api/spellcheck.
func (s *Server) handleSpellCheck(c echo.Context) error {
	var req SpellCheckRequest
	if err := decodeBody(c, &req); err != nil {
		if errors.Is(err, errInvalidJSON) {
			return s.reject(c, err)
		}
		return err
	}
	if len(req.Text) > MaxSpellCheckBytes {
		return s.reject(c, fmt.Errorf("text exceeds maximum length of %d bytes", MaxSpellCheckBytes))
	}

	s.stats.RecordSpellCheck()
	text := s.backend.Load().svc.SpellCheck(c.Request().Context(), req.Text)
	return c.JSON(http.StatusOK, SpellCheckResponse{Text: text})
}

// handleServices handles GET /api/services.
func (s *Server) handleServices(c echo.Context) error {
	b := s.backend.Load()
	table := b.svc.Models()

	cats := model.Categories()
	services := make([]ServiceInfo, 0, len(cats))
	for _, info := range cats {
		services = append(services, ServiceInfo{CategoryInfo: info, Model: table.For(info.Category)})
	}
	return c.JSON(http.StatusOK, ServicesResponse{
		Services:   services,
		Default:    string(b.defaultCategory),
		ImageModel: table.Image,
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       Version,
		Offline:       offline.IsOfflineMode(),
		UptimeSeconds: int64(s.stats.Uptime().Seconds()),
	})
}

// handleStats handles GET /stats.
func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stats.Snapshot())
}

// handleError renders errors returned by handlers and middleware as
// ErrorResponse. Internal details are logged, not returned.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "request_id", requestID(c), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: msg, RequestID: requestID(c)})
	}
	if err != nil {
		s.logger.Error("write error response", "error", err)
	}
}
