// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for common OpenRouter failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("OpenRouter API key not configured")

	// ErrTransport wraps network errors, timeouts and cancelled contexts.
	ErrTransport = errors.New("transport failure")

	// ErrEmptyContent indicates a 2xx response without usable content.
	ErrEmptyContent = errors.New("response has no content")

	// ErrMalformedResponse indicates a 2xx response that is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrAuthFailed indicates authentication failed (invalid or expired API key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrInsufficientCredits indicates the account has insufficient credits.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")
)

// maxErrorExcerpt bounds the body text kept in an UpstreamError.
const maxErrorExcerpt = 512

// UpstreamError is a non-2xx response from the API.
type UpstreamError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("OpenRouter error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("OpenRouter error (HTTP %d): %s", e.Status, e.Message)
}

// Is maps well-known statuses to the sentinel errors.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrInsufficientCredits:
		return e.Status == http.StatusPaymentRequired
	case ErrModelNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// Temporary reports whether the status suggests trying again later.
func (e *UpstreamError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// newUpstreamError builds an UpstreamError from a status and raw body.
func newUpstreamError(status int, body []byte) *UpstreamError {
	ue := &UpstreamError{Status: status}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		ue.Code = strings.Trim(string(apiErr.Error.Code), `"`)
		ue.Message = apiErr.Error.Message
		return ue
	}

	ue.Message = excerpt(body)
	if ue.Message == "" {
		ue.Message = http.StatusText(status)
	}
	return ue
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorExcerpt {
		s = s[:maxErrorExcerpt] + "..."
	}
	return s
}

// Kind returns a short label for a client error, for logs and counters.
func Kind(err error) string {
	var ue *UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.As(err, &ue):
		return "upstream"
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "other"
	}
}
