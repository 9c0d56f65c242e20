// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package imagegen

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.UnixMilli(1700000000123)
}

func TestGenerate(t *testing.T) {
	g := New(Options{}).WithClock(fixedClock)

	r := g.Generate("generate a sunset over mountains")

	assert.Equal(t, `I've generated an image for: "a sunset over mountains"`, r.Content)
	assert.Equal(t, DefaultServiceName, r.ModelUsed)
	assert.Equal(t,
		"https://image.pollinations.ai/prompt/a%20sunset%20over%20mountains?width=768&height=768&seed=1700000000123&enhance=true",
		r.GeneratedImage)
}

func TestGenerate_KeepsImageNouns(t *testing.T) {
	g := New(Options{}).WithClock(fixedClock)
	r := g.Generate("generate a picture of a dog")

	assert.Equal(t, `I've generated an image for: "a picture of a dog"`, r.Content)
	assert.Contains(t, r.GeneratedImage, "/prompt/a%20picture%20of%20a%20dog?")
}

func TestGenerate_EmptyAfterStripUsesOriginal(t *testing.T) {
	g := New(Options{}).WithClock(fixedClock)
	r := g.Generate("Draw")
	assert.Contains(t, r.Content, `"Draw"`)
	assert.True(t, strings.Contains(r.GeneratedImage, "/prompt/Draw?"))
}

func TestURL_EscapesPrompt(t *testing.T) {
	g := New(Options{}).WithClock(fixedClock)
	raw := g.URL("cats & dogs / 100%?")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/prompt/cats & dogs / 100%?", u.Path)
	assert.Equal(t, "768", u.Query().Get("width"))
	assert.Equal(t, "1700000000123", u.Query().Get("seed"))
}

func TestNew_CustomOptions(t *testing.T) {
	off := false
	g := New(Options{
		BaseURL:     "http://img.local/",
		ServiceName: "Local Images",
		Width:       512,
		Height:      256,
		Enhance:     &off,
	}).WithClock(fixedClock)

	assert.Equal(t, "Local Images", g.ServiceName())
	assert.Equal(t, "http://img.local/prompt/x?width=512&height=256&seed=1700000000123&enhance=false", g.URL("x"))
}
