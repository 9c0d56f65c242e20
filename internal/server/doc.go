// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the PandaNexus request pipeline over HTTP.
//
// Endpoints:
//   - POST /api/chat        - answer the latest message of a conversation
//   - POST /api/spellcheck  - normalize and correct a piece of text
//   - GET  /api/services    - service categories and their models
//   - GET  /health          - health check
//   - GET  /stats           - request counters by outcome
//
// Every chat request gets a 200 with a CompletionResult unless the request
// itself is invalid. Upstream failures surface as fallback replies, never
// as 5xx.
//
// The pipeline behind the handlers can be replaced at runtime with
// SetService, which is how configuration reloads take effect.
package server
