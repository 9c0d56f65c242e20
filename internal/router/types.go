// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"fmt"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
)

// =============================================================================
// ROUTING DECISION
// =============================================================================

// RoutingDecision captures the result of routing one request.
type RoutingDecision struct {
	// Intent is the classified intent of the latest message.
	Intent model.Intent `json:"-"`

	// IntentName is Intent in string form for JSON output.
	IntentName string `json:"intent"`

	// Category is the resolved service category (unknown values become auto).
	Category model.ServiceCategory `json:"category"`

	// Model is the upstream model id. Empty for image generation.
	Model string `json:"model,omitempty"`

	// Temperature is the sampling temperature for the category.
	Temperature float64 `json:"temperature"`

	// Reason explains the decision in one line.
	Reason string `json:"reason"`
}

// String returns a human-readable summary of the decision.
func (d RoutingDecision) String() string {
	if d.Model == "" {
		return fmt.Sprintf("%s via image service (%s)", d.Intent, d.Reason)
	}
	return fmt.Sprintf("%s -> %s @ %.1f (%s)", d.Intent, d.Model, d.Temperature, d.Reason)
}

// NeedsCompletion reports whether the request goes to the completion API.
func (d RoutingDecision) NeedsCompletion() bool {
	return d.Intent != model.IntentImageGeneration
}

// =============================================================================
// OPTIONS
// =============================================================================

// Default sampling temperatures.
const (
	DefaultCreativeTemperature = 0.8
	DefaultCodeTemperature     = 0.3
	DefaultTemperature         = 0.7
)

// Options holds the per-category sampling temperatures.
type Options struct {
	CreativeTemperature float64 `toml:"creative" json:"creative"`
	CodeTemperature     float64 `toml:"code" json:"code"`
	DefaultTemperature  float64 `toml:"default" json:"default"`
}

// DefaultOptions returns the standard temperature settings.
func DefaultOptions() Options {
	return Options{
		CreativeTemperature: DefaultCreativeTemperature,
		CodeTemperature:     DefaultCodeTemperature,
		DefaultTemperature:  DefaultTemperature,
	}
}

// TemperatureFor returns the temperature used for a category.
func (o Options) TemperatureFor(c model.ServiceCategory) float64 {
	switch c {
	case model.CategoryCreative:
		return o.CreativeTemperature
	case model.CategoryCode:
		return o.CodeTemperature
	default:
		return o.DefaultTemperature
	}
}
