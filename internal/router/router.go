// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"strconv"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
)

// SelectModel maps a category and intent to an upstream model id.
// Total over all inputs: an image attachment always selects the multimodal
// model, and unknown or empty categories use the auto entry.
func SelectModel(table model.ModelTable, category model.ServiceCategory, intent model.Intent) string {
	if intent == model.IntentImageAnalysis {
		return table.Image
	}
	return table.For(category.Resolve())
}

// Route classifies the latest message and selects model and temperature.
func Route(history []model.Message, category model.ServiceCategory, table model.ModelTable, opts Options) RoutingDecision {
	intent := ClassifyHistory(history)
	resolved := category.Resolve()

	d := RoutingDecision{
		Intent:      intent,
		IntentName:  intent.String(),
		Category:    resolved,
		Temperature: opts.TemperatureFor(resolved),
	}

	switch intent {
	case model.IntentImageGeneration:
		d.Temperature = 0
		d.Reason = "image request in latest message"
	case model.IntentImageAnalysis:
		d.Model = SelectModel(table, resolved, intent)
		d.Reason = "image attached to latest message"
	default:
		d.Model = SelectModel(table, resolved, intent)
		if category != "" && resolved != category {
			d.Reason = "unrecognized category " + strconv.Quote(string(category)) + ", using auto"
		} else {
			d.Reason = "category " + string(resolved)
		}
	}
	return d
}
