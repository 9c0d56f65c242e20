// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package offline provides the degraded-mode behaviour of the assistant.
//
// Two things live here: the fallback table, which maps every service
// category to a canned reply tagged with the offline sentinel model, and
// the process-wide offline switch that keeps the core from contacting the
// completion API at all.
//
// # Key Types
//
//   - Sentinel: Model name marking a reply as not produced upstream
//   - ErrCloudBlocked: Returned by CheckCloudAllowed while offline
//
// # Usage
//
//	if err := offline.CheckCloudAllowed(); err != nil {
//		return offline.Fallback(category)
//	}
package offline
