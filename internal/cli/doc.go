// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the pandanexus command line.
//
// Commands:
//
//	pandanexus serve [--addr ADDR]          Run the HTTP API
//	pandanexus chat [--service NAME]        Interactive chat
//	pandanexus ask [--service NAME] PROMPT  One-shot question (--json for scripts)
//	pandanexus spellcheck TEXT              Correct spelling and punctuation
//	pandanexus models [--remote]            Show the routing table
//	pandanexus config show|init|path|get|set|set-key|delete-key
//
// Global flags:
//
//	-c, --config PATH   Config file (default ~/.pandanexus/config.toml)
//	-v, --verbose       Debug logging
//
// Output goes to the command's writers so every command can be driven from
// tests. Markdown rendering and colors only apply when stdout is a terminal.
package cli
