// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package offline

import (
	"errors"
	"sync/atomic"
)

// ErrCloudBlocked is returned when the completion API is requested in offline mode.
var ErrCloudBlocked = errors.New("offline mode: completion API disabled")

// enabled is the process-wide offline switch. Config reloads flip it while
// requests are in flight.
var enabled atomic.Bool

// SetOfflineMode turns offline mode on or off for the whole process.
// While on, every chat request is answered from the fallback table and
// spell checking stays local.
func SetOfflineMode(on bool) {
	enabled.Store(on)
}

// IsOfflineMode reports whether offline mode is on.
func IsOfflineMode() bool {
	return enabled.Load()
}

// CheckCloudAllowed returns ErrCloudBlocked while offline mode is on.
func CheckCloudAllowed() error {
	if enabled.Load() {
		return ErrCloudBlocked
	}
	return nil
}

// StatusBadge is "[OFFLINE]" for status lines while offline, else empty.
func StatusBadge() string {
	if enabled.Load() {
		return "[OFFLINE]"
	}
	return ""
}
