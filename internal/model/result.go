// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// CompletionResult is what the core hands back for every request.
// ModelUsed is an upstream model id, the image service name, or the
// offline sentinel.
type CompletionResult struct {
	Content        string `json:"content"`
	ModelUsed      string `json:"model"`
	GeneratedImage string `json:"imageUrl,omitempty"`
}

// HasImage reports whether the result carries a generated image URL.
func (r CompletionResult) HasImage() bool {
	return r.GeneratedImage != ""
}
