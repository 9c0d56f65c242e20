// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"regexp"
	"strings"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
)

// =============================================================================
// INTENT CLASSIFICATION
// =============================================================================

// ImageVerbs are the verbs that ask for an image. They are removed from the
// prompt sent to the image service.
var ImageVerbs = []string{"generate", "create", "make", "draw"}

// ImageNouns also mark an image generation request but are the subject of
// the prompt, so they stay in it.
var ImageNouns = []string{"drawing", "picture", "photo"}

var (
	// imageWordPattern matches any image verb or noun as a whole word, plural allowed.
	imageWordPattern = wordPattern(append(append([]string{}, ImageVerbs...), ImageNouns...))

	// imageVerbPattern matches the verbs only.
	imageVerbPattern = wordPattern(ImageVerbs)
)

func wordPattern(words []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)s?\b`)
}

// ClassifyIntent determines what the latest message asks for.
//
// Classification rules (in priority order):
//  1. An attached image means imageAnalysis, whatever the text says
//  2. An image verb or noun as a whole word means imageGeneration
//  3. Everything else is plainText
func ClassifyIntent(latest model.Message) model.Intent {
	if latest.HasImage() {
		return model.IntentImageAnalysis
	}
	if imageWordPattern.MatchString(latest.Content) {
		return model.IntentImageGeneration
	}
	return model.IntentPlainText
}

// ClassifyHistory classifies the last message of a conversation.
// An empty history is plainText.
func ClassifyHistory(history []model.Message) model.Intent {
	latest, ok := model.Latest(history)
	if !ok {
		return model.IntentPlainText
	}
	return ClassifyIntent(latest)
}

// StripImageVerbs removes every image verb from text and collapses the
// remaining whitespace. Returns the trimmed original if nothing is left.
func StripImageVerbs(text string) string {
	stripped := strings.Join(strings.Fields(imageVerbPattern.ReplaceAllString(text, " ")), " ")
	if stripped == "" {
		return strings.TrimSpace(text)
	}
	return stripped
}
