// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the OpenRouter chat completions client.
//
// The client issues exactly one POST per call and never retries; the caller
// decides what a failure means. Failures are typed so callers can tell them
// apart:
//
//   - ErrTransport: network error, timeout or cancelled context
//   - *UpstreamError: non-2xx status (matches ErrAuthFailed, ErrRateLimited, ...)
//   - ErrEmptyContent / ErrMalformedResponse: 2xx without usable content
//   - ErrNotConfigured: no API key
//
// # Key Types
//
//   - Client: HTTP client for the OpenRouter API
//   - ChatMessage: Message in OpenRouter format, text or multimodal parts
//   - ChatRequest: Request body for chat completions
//
// # Usage
//
//	client := cloud.NewClient(apiKey).WithSiteURL("https://pandanexus.dev")
//	resp, err := client.Complete(ctx, cloud.ChatRequest{
//	    Model:    "qwen/qwen3-coder:free",
//	    Messages: []cloud.ChatMessage{cloud.NewUserMessage("Hello")},
//	})
//
// # Security
//
// API keys are never logged. Only a SHA-256 fingerprint is exposed.
package cloud
