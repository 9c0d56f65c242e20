// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package imagegen builds image URLs for image generation requests.
//
// No request is made: the returned URL is fetched later by whoever renders
// it, and the image service renders on demand. Building a URL cannot fail.
package imagegen

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/router"
)

// Defaults for the image service.
const (
	DefaultBaseURL     = "https://image.pollinations.ai"
	DefaultServiceName = "Pollinations AI"
	DefaultWidth       = 768
	DefaultHeight      = 768
)

// Options configures a Generator. Zero fields take the defaults.
type Options struct {
	BaseURL     string `toml:"base_url" json:"base_url"`
	ServiceName string `toml:"service_name" json:"service_name"`
	Width       int    `toml:"width" json:"width"`
	Height      int    `toml:"height" json:"height"`
	Enhance     *bool  `toml:"enhance" json:"enhance,omitempty"`
}

// DefaultOptions returns the standard image settings.
func DefaultOptions() Options {
	return Options{
		BaseURL:     DefaultBaseURL,
		ServiceName: DefaultServiceName,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
	}
}

// Generator turns prompts into image results.
type Generator struct {
	opts Options
	now  func() time.Time
}

// New creates a generator. Zero option fields take the defaults.
func New(opts Options) *Generator {
	d := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = d.BaseURL
	}
	if opts.ServiceName == "" {
		opts.ServiceName = d.ServiceName
	}
	if opts.Width <= 0 {
		opts.Width = d.Width
	}
	if opts.Height <= 0 {
		opts.Height = d.Height
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	return &Generator{opts: opts, now: time.Now}
}

// WithClock returns a copy of the generator that takes seeds from now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	cp := *g
	cp.now = now
	return &cp
}

// ServiceName is reported as the model of generated results.
func (g *Generator) ServiceName() string {
	return g.opts.ServiceName
}

// Generate builds the image result for a user message. The intent verbs
// are stripped from the prompt; if nothing remains the original text is used.
func (g *Generator) Generate(text string) model.CompletionResult {
	prompt := router.StripImageVerbs(text)
	return model.CompletionResult{
		Content:        fmt.Sprintf("I've generated an image for: \"%s\"", prompt),
		ModelUsed:      g.opts.ServiceName,
		GeneratedImage: g.URL(prompt),
	}
}

// URL returns the image URL for a prompt, seeded with the current time in
// Unix milliseconds.
func (g *Generator) URL(prompt string) string {
	enhance := g.opts.Enhance == nil || *g.opts.Enhance
	return fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&seed=%d&enhance=%s",
		g.opts.BaseURL, url.PathEscape(prompt), g.opts.Width, g.opts.Height,
		g.now().UnixMilli(), strconv.FormatBool(enhance))
}
