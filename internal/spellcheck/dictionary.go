// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package spellcheck

import (
	"regexp"
	"sort"
	"strings"
)

// corrections maps a lowercase misspelling to its correct spelling.
// No correct spelling may itself appear as a key.
var corrections = map[string]string{
	"teh":          "the",
	"recieve":      "receive",
	"seperate":     "separate",
	"definately":   "definitely",
	"occured":      "occurred",
	"neccessary":   "necessary",
	"accomodate":   "accommodate",
	"begining":     "beginning",
	"beleive":      "believe",
	"calender":     "calendar",
	"cemetary":     "cemetery",
	"changable":    "changeable",
	"collegue":     "colleague",
	"comming":      "coming",
	"commited":     "committed",
	"concious":     "conscious",
	"embarass":     "embarrass",
	"enviroment":   "environment",
	"existance":    "existence",
	"experiance":   "experience",
	"familar":      "familiar",
	"finaly":       "finally",
	"foriegn":      "foreign",
	"goverment":    "government",
	"grammer":      "grammar",
	"independant":  "independent",
	"intergrate":   "integrate",
	"knowlege":     "knowledge",
	"maintainance": "maintenance",
	"occassion":    "occasion",
	"persue":       "pursue",
	"priviledge":   "privilege",
	"recomend":     "recommend",
	"refered":      "referred",
	"relevent":     "relevant",
	"responsable":  "responsible",
	"succesful":    "successful",
	"tommorow":     "tomorrow",
	"truely":       "truly",
	"untill":       "until",
	"usefull":      "useful",
	"wierd":        "weird",
	"writting":     "writing",
}

// misspellingPattern matches any dictionary key as a whole word, any case.
var misspellingPattern = buildMisspellingPattern()

func buildMisspellingPattern() *regexp.Regexp {
	keys := make([]string, 0, len(corrections))
	for k := range corrections {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// Longest first so alternation never settles on a shorter prefix.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// Lookup returns the correction for a single word, ignoring case.
func Lookup(word string) (string, bool) {
	// Upper then lower folds runes like U+017F that match case-insensitively.
	fixed, ok := corrections[strings.ToLower(strings.ToUpper(word))]
	return fixed, ok
}

// DictionarySize returns the number of known misspellings.
func DictionarySize() int {
	return len(corrections)
}

// matchCase shapes replacement like original: ALL CAPS, Title or lower.
func matchCase(original, replacement string) string {
	upper := strings.ToUpper(original)
	switch {
	case len(original) > 1 && original == upper:
		return strings.ToUpper(replacement)
	case original[:1] == upper[:1] && original[:1] != strings.ToLower(original[:1]):
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	default:
		return replacement
	}
}
