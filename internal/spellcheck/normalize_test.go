// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package spellcheck

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"misspellings and pronoun", "i beleive teh cat is here", "I believe the cat is here."},
		{"empty", "", ""},
		{"whitespace only", "   \n", "   \n"},
		{"keeps terminal question mark", "is it ready?", "Is it ready?"},
		{"keeps terminal exclamation", "wow!", "Wow!"},
		{"sentence starts", "hello. how are you? fine! ok", "Hello. How are you? Fine! Ok."},
		{"title case preserved", "Teh end", "The end."},
		{"all caps preserved", "TEH END", "THE END."},
		{"substring untouched", "tehran is a city", "Tehran is a city."},
		{"pronoun inside word untouched", "it is fine", "It is fine."},
		{"pronoun with apostrophe", "yes i'm here", "Yes I'm here."},
		{"leading whitespace trimmed", "  hello", "Hello."},
		{"capitalized pronoun recomposes", "i\u0307 saw it", "\u0130 saw it."},
		{"dotless i recomposes at sentence start", "ok. \u0131\u0307s", "Ok. \u0130s."},
		{"long s folds to a dictionary key", "\u017feperate", "Separate."},
		{"unicode leading space", "\u00a0hello", "Hello."},
		{"several fixes", "we will recieve it tommorow untill noon", "We will receive it tomorrow until noon."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func FuzzNormalize(f *testing.F) {
	seeds := []string{
		"i beleive teh cat is here",
		"  hello",
		"hello.world",
		"TEH wierd GOVERMENT. i think so",
		"i.e. the calender",
		"Multi\nline\ntext. second line",
		"already Fine.",
		"éte",
		"i\u0307 saw it",
		"ok. \u0131\u0307s",
		"\u017feperate",
		"\u00a0hello",
		"teh\u0301 end",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", s, once, twice)
		}
	})
}

func TestNormalize_NFC(t *testing.T) {
	decomposed := "cafe\u0301"
	assert.Equal(t, "Caf\u00e9.", Normalize(decomposed))
}

func TestNormalize_EveryDictionaryEntry(t *testing.T) {
	for wrong, right := range corrections {
		assert.Equal(t, "A "+right+" b.", Normalize("a "+wrong+" b"), "entry %q", wrong)
		_, isKey := corrections[right]
		assert.False(t, isKey, "correction %q must not itself be a misspelling", right)
	}
}

func TestChanged(t *testing.T) {
	assert.True(t, Changed("teh"))
	assert.False(t, Changed("The cat."))
}

func TestLookup(t *testing.T) {
	fixed, ok := Lookup("BELEIVE")
	assert.True(t, ok)
	assert.Equal(t, "believe", fixed)

	_, ok = Lookup("believe")
	assert.False(t, ok)
	assert.Equal(t, 43, DictionarySize())
}
