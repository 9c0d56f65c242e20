// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package offline

import "github.com/ssssjaj14-ux/shakeel/internal/model"

// Sentinel is the model name reported for fallback replies. It never
// appears in a model table.
const Sentinel = "PandaNexus Offline"

var fallbackMessages = map[model.ServiceCategory]string{
	model.CategoryAuto:      "Hi! I'm PandaNexus AI assistant. How can I help?",
	model.CategoryCode:      "Here's a simple code example: console.log('Hello PandaNexus');",
	model.CategoryCreative:  "Let's create something amazing! What project are you working on?",
	model.CategoryKnowledge: "I can provide detailed knowledge and explanations on any topic.",
	model.CategoryGeneral:   "Hello! I'm PandaNexus, your AI assistant. How can I assist you today?",
}

// Fallback returns the canned reply for a category. Unknown categories get
// the auto reply.
func Fallback(category model.ServiceCategory) model.CompletionResult {
	return model.CompletionResult{
		Content:   FallbackMessage(category),
		ModelUsed: Sentinel,
	}
}

// FallbackMessage returns just the canned text for a category.
func FallbackMessage(category model.ServiceCategory) string {
	return fallbackMessages[category.Resolve()]
}

// IsFallback reports whether a result came from the fallback table.
func IsFallback(r model.CompletionResult) bool {
	return r.ModelUsed == Sentinel
}
