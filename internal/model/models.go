// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// =============================================================================
// MODEL TABLE
// =============================================================================

// Default upstream model identifiers.
const (
	DefaultAutoModel      = "deepseek/deepseek-chat-v3.1:free"
	DefaultCodeModel      = "qwen/qwen3-coder:free"
	DefaultCreativeModel  = "mistralai/mistral-nemo:free"
	DefaultKnowledgeModel = "cognitivecomputations/dolphin-mistral-24b-venice-edition:free"
	DefaultGeneralModel   = "deepseek/deepseek-chat-v3.1:free"
	DefaultImageModel     = "google/gemini-2.5-flash-image-preview:free"
)

// ModelTable maps each service category to an upstream model identifier.
// Image is the multimodal model used for any message carrying an image.
type ModelTable struct {
	Auto      string `toml:"auto" json:"auto"`
	Code      string `toml:"code" json:"code"`
	Creative  string `toml:"creative" json:"creative"`
	Knowledge string `toml:"knowledge" json:"knowledge"`
	General   string `toml:"general" json:"general"`
	Image     string `toml:"image" json:"image"`
}

// DefaultModelTable returns the built-in routing table.
func DefaultModelTable() ModelTable {
	return ModelTable{
		Auto:      DefaultAutoModel,
		Code:      DefaultCodeModel,
		Creative:  DefaultCreativeModel,
		Knowledge: DefaultKnowledgeModel,
		General:   DefaultGeneralModel,
		Image:     DefaultImageModel,
	}
}

// For returns the model for a category. Unknown and empty categories use
// the auto entry. The result is never empty for a validated table.
func (t ModelTable) For(c ServiceCategory) string {
	switch c {
	case CategoryCode:
		return t.Code
	case CategoryCreative:
		return t.Creative
	case CategoryKnowledge:
		return t.Knowledge
	case CategoryGeneral:
		return t.General
	default:
		return t.Auto
	}
}

// WithDefaults fills empty entries from the built-in table.
func (t ModelTable) WithDefaults() ModelTable {
	d := DefaultModelTable()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&t.Auto, d.Auto)
	fill(&t.Code, d.Code)
	fill(&t.Creative, d.Creative)
	fill(&t.Knowledge, d.Knowledge)
	fill(&t.General, d.General)
	fill(&t.Image, d.Image)
	return t
}

// Validate reports the first empty entry, if any.
func (t ModelTable) Validate() error {
	entries := []struct {
		name, id string
	}{
		{"auto", t.Auto},
		{"code", t.Code},
		{"creative", t.Creative},
		{"knowledge", t.Knowledge},
		{"general", t.General},
		{"image", t.Image},
	}
	for _, e := range entries {
		if e.id == "" {
			return fmt.Errorf("model table: %s entry is empty", e.name)
		}
	}
	return nil
}

// Contains reports whether id is assigned to any entry.
func (t ModelTable) Contains(id string) bool {
	switch id {
	case t.Auto, t.Code, t.Creative, t.Knowledge, t.General, t.Image:
		return true
	}
	return false
}
