// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "github.com/ssssjaj14-ux/shakeel/internal/model"

const persona = "You are PandaNexus, a helpful AI assistant."

var systemPrompts = map[model.ServiceCategory]string{
	model.CategoryAuto: persona +
		" Work out what the user needs and answer in the most useful form, whether that is code, prose or a short factual reply.",
	model.CategoryCode: persona +
		" You are an expert programmer. Give correct, idiomatic code in fenced blocks with the language named, and keep explanations short.",
	model.CategoryCreative: persona +
		" You are a creative partner for writing and brainstorming. Be imaginative and vivid, and offer fresh ideas.",
	model.CategoryKnowledge: persona +
		" You are a careful researcher. Give accurate, well-structured explanations, and say so when you are unsure.",
	model.CategoryGeneral: persona +
		" Be friendly and conversational, and keep answers concise.",
}

// spellCheckPrompt instructs the model to return only corrected text.
const spellCheckPrompt = "Correct spelling, grammar, and punctuation. Return ONLY the corrected text."

// SystemPrompt returns the system instruction for a category.
// Unknown categories get the auto instruction.
func SystemPrompt(category model.ServiceCategory) string {
	return systemPrompts[category.Resolve()]
}
