// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the request-scoped values exchanged with the
// routing core.
//
// # Key Types
//
//   - Message: Single conversation entry with role, text and optional image
//   - ServiceCategory: Caller-declared service (auto, code, creative, knowledge, general)
//   - Intent: What the latest message asks for (text, image generation, image analysis)
//   - CompletionResult: The reply handed back to the caller
//   - ModelTable: Category to upstream model identifier mapping
//
// # Usage
//
//	history := []model.Message{
//	    {Role: model.RoleUser, Content: "explain goroutines"},
//	}
//	id := model.DefaultModelTable().For(model.CategoryCode)
package model
