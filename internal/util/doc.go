// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the CLI, server and config.
//
// # Key Functions
//
//   - TruncateRunes: UTF-8 safe truncation with ellipsis, for log excerpts
//   - TruncateWidth, StringWidth: terminal display width (CJK, emoji)
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
