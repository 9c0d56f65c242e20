// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router decides how a chat request is served.
//
// Routing happens in two steps: the latest message is classified into an
// Intent, then the (category, intent) pair is mapped to an upstream model.
//
//	plain text       -> category model (unknown categories use auto)
//	image attached   -> multimodal model, regardless of category
//	image generation -> image URL service, no completion model
//
// # Key Types
//
//   - RoutingDecision: Intent, category, model, temperature and reason
//   - Options: Per-category sampling temperatures
//
// # Usage
//
//	d := router.Route(history, model.CategoryCode, table, router.DefaultOptions())
//	if d.Intent == model.IntentImageGeneration {
//	    // build an image URL instead of calling the completion API
//	}
package router
