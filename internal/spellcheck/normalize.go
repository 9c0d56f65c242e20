// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package spellcheck

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	pronounPattern       = regexp.MustCompile(`\bi\b`)
	// Space class matches what strings.TrimSpace removes.
	sentenceStartPattern = regexp.MustCompile(`(?:^[\s\v\x{85}\p{Z}]*|[.!?][\s\v\x{85}\p{Z}]+)(\p{Ll})`)
)

// Normalize cleans text for sending upstream. Rules run in order:
//
//  1. Unicode NFC
//  2. standalone "i" becomes "I"
//  3. first lowercase letter of the text, or one after [.!?] and whitespace is capitalized
//  4. dictionary misspellings, whole word, case-insensitive
//  5. NFC again, since uppercasing and replacement can leave composable sequences
//  6. a period is appended to the trimmed text if it lacks terminal [.!?]
//
// Normalize(Normalize(s)) == Normalize(s) for valid UTF-8 input.
// Empty or whitespace-only input is returned unchanged.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	out := norm.NFC.String(text)
	out = pronounPattern.ReplaceAllString(out, "I")
	out = capitalizeSentences(out)
	out = fixMisspellings(out)
	out = norm.NFC.String(out)
	return terminate(out)
}

// Changed reports whether Normalize would alter text.
func Changed(text string) bool {
	return Normalize(text) != text
}

func fixMisspellings(s string) string {
	return misspellingPattern.ReplaceAllStringFunc(s, func(word string) string {
		fixed, ok := Lookup(word)
		if !ok {
			return word
		}
		return matchCase(word, fixed)
	})
}

func capitalizeSentences(s string) string {
	matches := sentenceStartPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		r, _ := utf8.DecodeRuneInString(s[start:end])
		b.WriteString(s[last:start])
		b.WriteRune(unicode.ToUpper(r))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func terminate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return s
	}
	return trimmed + "."
}
