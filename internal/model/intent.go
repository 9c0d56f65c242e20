// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Intent is the implicit request type derived from the latest message.
type Intent int

const (
	// IntentPlainText is an ordinary completion request.
	IntentPlainText Intent = iota
	// IntentImageGeneration asks for a new image from a text prompt.
	IntentImageGeneration
	// IntentImageAnalysis carries an image to be described or analysed.
	IntentImageAnalysis
)

// String returns the string representation of the intent.
func (i Intent) String() string {
	switch i {
	case IntentPlainText:
		return "plainText"
	case IntentImageGeneration:
		return "imageGeneration"
	case IntentImageAnalysis:
		return "imageAnalysis"
	default:
		return "unknown"
	}
}
