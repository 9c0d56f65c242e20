// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package spellcheck normalizes outgoing message text.
//
// Normalize is pure, deterministic and idempotent: it applies Unicode NFC,
// capitalizes the pronoun "i" and sentence starts, fixes a fixed dictionary
// of common misspellings, and terminates the text with a period when no
// terminal punctuation is present.
//
// # Usage
//
//	clean := spellcheck.Normalize("i beleive teh cat is here")
//	// clean == "I believe the cat is here."
package spellcheck
