// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// SERVICE CATEGORY
// =============================================================================

// ServiceCategory is the service the caller asked for. It is a string so that
// unrecognized values survive decoding and degrade to the auto mapping.
type ServiceCategory string

const (
	CategoryAuto      ServiceCategory = "auto"
	CategoryCode      ServiceCategory = "code"
	CategoryCreative  ServiceCategory = "creative"
	CategoryKnowledge ServiceCategory = "knowledge"
	CategoryGeneral   ServiceCategory = "general"
)

// CategoryInfo is the display metadata for a category.
type CategoryInfo struct {
	Category    ServiceCategory `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
}

var categoryInfo = []CategoryInfo{
	{CategoryAuto, "Auto", "Smart AI routing"},
	{CategoryCode, "Code", "Programming help"},
	{CategoryCreative, "Creative", "Writing & ideas"},
	{CategoryKnowledge, "Knowledge", "Research & facts"},
	{CategoryGeneral, "Chat", "General chat"},
}

// Categories returns the known categories in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryInfo))
	copy(out, categoryInfo)
	return out
}

// String returns the string representation of the category.
func (c ServiceCategory) String() string {
	return string(c)
}

// IsKnown reports whether c is one of the five declared categories.
func (c ServiceCategory) IsKnown() bool {
	for _, info := range categoryInfo {
		if info.Category == c {
			return true
		}
	}
	return false
}

// Resolve returns c if known and CategoryAuto otherwise.
func (c ServiceCategory) Resolve() ServiceCategory {
	if c.IsKnown() {
		return c
	}
	return CategoryAuto
}

// Info returns the display metadata, falling back to auto for unknown values.
func (c ServiceCategory) Info() CategoryInfo {
	resolved := c.Resolve()
	for _, info := range categoryInfo {
		if info.Category == resolved {
			return info
		}
	}
	return categoryInfo[0]
}

// ParseCategory maps user input (id or label, any case) to a category.
// Unknown input returns CategoryAuto and false.
func ParseCategory(s string) (ServiceCategory, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, info := range categoryInfo {
		if s == string(info.Category) || s == strings.ToLower(info.Label) {
			return info.Category, true
		}
	}
	return CategoryAuto, false
}
